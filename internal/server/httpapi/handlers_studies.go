package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/studies"
)

type studyInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Category     string `json:"category"`
	Schedule     string `json:"schedule"`
	Location     string `json:"location"`
	RecruitCount int    `json:"recruitCount"`
	Curriculum   string `json:"curriculum"`
}

func (in studyInput) toInput() studies.Input {
	return studies.Input{
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Category:     in.Category,
		Schedule:     in.Schedule,
		Location:     in.Location,
		RecruitCount: in.RecruitCount,
		Curriculum:   in.Curriculum,
	}
}

type studyResponse struct {
	ID           int64  `json:"id"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Category     string `json:"category"`
	Schedule     string `json:"schedule"`
	Location     string `json:"location"`
	RecruitCount int    `json:"recruitCount"`
	Curriculum   string `json:"curriculum"`
	Views        int    `json:"views"`
	IsTemp       bool   `json:"isTemp"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toStudyResponse(s *studies.Study) studyResponse {
	return studyResponse{
		ID:           s.ID,
		AuthorID:     s.AuthorID,
		AuthorName:   s.AuthorName,
		Title:        s.Title,
		Description:  s.Description,
		Status:       s.Status,
		Category:     s.Category,
		Schedule:     s.Schedule,
		Location:     s.Location,
		RecruitCount: s.RecruitCount,
		Curriculum:   s.Curriculum,
		Views:        s.Views,
		IsTemp:       s.IsTemp,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

func toStudyResponses(list []*studies.Study) []studyResponse {
	out := make([]studyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStudyResponse(s))
	}
	return out
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func (s *Server) handleStudyList(w http.ResponseWriter, r *http.Request) {
	list, err := s.studies.List(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyResponses(list))
}

func (s *Server) handleStudyGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	study, err := s.studies.Get(r.Context(), id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyResponse(study))
}

func (s *Server) handleStudyCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	var in studyInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	study, err := s.studies.Create(r.Context(), p.ID, in.toInput())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudyResponse(study))
}

func (s *Server) handleStudyUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	var in studyInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	study, err := s.studies.Update(r.Context(), id, p.ID, in.toInput())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyResponse(study))
}

func (s *Server) handleStudyDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	if err := s.studies.Delete(r.Context(), id, p.ID); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStudyMine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	list, err := s.studies.MyPosts(r.Context(), p.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyResponses(list))
}

func (s *Server) handleStudyDraftSave(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	var in studyInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	draft, err := s.studies.SaveDraft(r.Context(), p.ID, in.toInput())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudyResponse(draft))
}

func (s *Server) handleStudyDraftGet(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	draft, err := s.studies.LatestDraft(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// no draft yet is not an error for the client
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyResponse(draft))
}
