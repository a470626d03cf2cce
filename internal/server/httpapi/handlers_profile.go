package httpapi

import (
	"net/http"

	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/users"
)

type profileResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	TechStacks []string `json:"techStacks"`
}

func toProfileResponse(p *users.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       p.Role,
		TechStacks: p.TechStacks,
	}
}

func (s *Server) handleProfileMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	profile, err := s.users.Profile(r.Context(), p.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	var in struct {
		Name       string   `json:"name"`
		TechStacks []string `json:"techStacks"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	profile, err := s.users.UpdateProfile(r.Context(), p.ID, in.Name, in.TechStacks)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	// email stays private on other users' profiles
	out := toProfileResponse(profile)
	out.Email = ""
	writeJSON(w, http.StatusOK, out)
}
