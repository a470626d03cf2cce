// Package httpapi exposes the StudyMate services over HTTP. Routing uses the
// standard library mux with method-qualified patterns; authentication is a
// fall-through bearer-token middleware that attaches a principal when the
// token checks out and leaves the request anonymous otherwise. Route-level
// guards decide what anonymous requests may reach.
package httpapi

import (
	"net/http"
	"time"

	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/comments"
	"github.com/chillele/studymate/internal/server/participations"
	"github.com/chillele/studymate/internal/server/reset"
	"github.com/chillele/studymate/internal/server/sessions"
	"github.com/chillele/studymate/internal/server/studies"
	"github.com/chillele/studymate/internal/server/users"
)

const refreshCookieName = "refreshToken"

type Server struct {
	sessions       *sessions.Service
	reset          *reset.Service
	studies        *studies.Service
	comments       *comments.Service
	participations *participations.Service
	users          *users.Service
	authenticator  *auth.Authenticator
	refreshTTL     time.Duration
	logger         logging.Logger
}

func NewServer(
	sessionSvc *sessions.Service,
	resetSvc *reset.Service,
	studySvc *studies.Service,
	commentSvc *comments.Service,
	participationSvc *participations.Service,
	userSvc *users.Service,
	authenticator *auth.Authenticator,
	refreshTTL time.Duration,
	logger logging.Logger,
) *Server {
	return &Server{
		sessions:       sessionSvc,
		reset:          resetSvc,
		studies:        studySvc,
		comments:       commentSvc,
		participations: participationSvc,
		users:          userSvc,
		authenticator:  authenticator,
		refreshTTL:     refreshTTL,
		logger:         logger.With("module", "httpapi"),
	}
}

// Handler assembles the full middleware chain and route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// auth, public
	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)

	// password reset, public
	mux.HandleFunc("POST /api/auth/password-reset/request", s.handleResetRequest)
	mux.HandleFunc("POST /api/auth/password-reset/verify", s.handleResetVerify)
	mux.HandleFunc("POST /api/auth/password-reset/reset", s.handleResetPassword)

	// studies: reads public, mutations authenticated
	mux.HandleFunc("GET /api/studies", s.handleStudyList)
	mux.HandleFunc("GET /api/studies/{id}", s.handleStudyGet)
	mux.HandleFunc("POST /api/studies", RequireAuthenticated(s.handleStudyCreate))
	mux.HandleFunc("PUT /api/studies/{id}", RequireAuthenticated(s.handleStudyUpdate))
	mux.HandleFunc("DELETE /api/studies/{id}", RequireAuthenticated(s.handleStudyDelete))
	mux.HandleFunc("GET /api/studies/mine", RequireAuthenticated(s.handleStudyMine))
	mux.HandleFunc("POST /api/studies/temp", RequireAuthenticated(s.handleStudyDraftSave))
	mux.HandleFunc("GET /api/studies/temp", RequireAuthenticated(s.handleStudyDraftGet))

	// comments
	mux.HandleFunc("GET /api/studies/{id}/comments", s.handleCommentList)
	mux.HandleFunc("POST /api/studies/{id}/comments", RequireAuthenticated(s.handleCommentCreate))
	mux.HandleFunc("PUT /api/comments/{id}", RequireAuthenticated(s.handleCommentUpdate))
	mux.HandleFunc("DELETE /api/comments/{id}", RequireAuthenticated(s.handleCommentDelete))

	// participations
	mux.HandleFunc("POST /api/studies/{id}/participations", RequireAuthenticated(s.handleParticipationApply))
	mux.HandleFunc("GET /api/studies/{id}/participations", RequireAuthenticated(s.handleParticipationList))
	mux.HandleFunc("PUT /api/studies/{id}/participations/{pid}", RequireAuthenticated(s.handleParticipationDecide))
	mux.HandleFunc("GET /api/participations/mine", RequireAuthenticated(s.handleParticipationMine))

	// profiles
	mux.HandleFunc("GET /api/profile/me", RequireAuthenticated(s.handleProfileMe))
	mux.HandleFunc("PUT /api/profile/me", RequireAuthenticated(s.handleProfileUpdate))
	mux.HandleFunc("GET /api/profiles/{id}", s.handleProfileGet)

	// admin probe, role-gated
	mux.HandleFunc("GET /api/private", RequireRole(users.RoleAdmin, s.handlePrivate))

	return Chain(mux,
		WithRequestID,
		WithRecover(s.logger),
		s.authenticator.Middleware,
	)
}

func (s *Server) handlePrivate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "email": p.Email})
}
