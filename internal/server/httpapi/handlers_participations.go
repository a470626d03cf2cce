package httpapi

import (
	"net/http"
	"time"

	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/participations"
)

type participationResponse struct {
	ID         int64  `json:"id"`
	StudyID    int64  `json:"studyId"`
	StudyTitle string `json:"studyTitle,omitempty"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toParticipationResponse(p *participations.Participation) participationResponse {
	return participationResponse{
		ID:         p.ID,
		StudyID:    p.StudyID,
		StudyTitle: p.StudyTitle,
		UserID:     p.UserID,
		UserName:   p.UserName,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func toParticipationResponses(list []*participations.Participation) []participationResponse {
	out := make([]participationResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toParticipationResponse(p))
	}
	return out
}

func (s *Server) handleParticipationApply(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	studyID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	created, err := s.participations.Apply(r.Context(), studyID, p.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipationResponse(created))
}

func (s *Server) handleParticipationList(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	studyID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	list, err := s.participations.ListByStudy(r.Context(), studyID, p.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipationResponses(list))
}

func (s *Server) handleParticipationDecide(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	studyID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	participationID, err := pathID(r, "pid")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid participation id")
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := s.participations.SetStatus(r.Context(), studyID, participationID, p.ID, in.Status)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipationResponse(updated))
}

func (s *Server) handleParticipationMine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	list, err := s.participations.ListMine(r.Context(), p.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipationResponses(list))
}
