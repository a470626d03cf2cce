package httpapi

import (
	"net/http"
	"time"

	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/comments"
)

type commentResponse struct {
	ID         int64             `json:"id"`
	StudyID    int64             `json:"studyId"`
	AuthorID   string            `json:"authorId"`
	AuthorName string            `json:"authorName"`
	ParentID   *int64            `json:"parentId,omitempty"`
	Content    string            `json:"content"`
	CreatedAt  string            `json:"createdAt"`
	UpdatedAt  string            `json:"updatedAt"`
	Replies    []commentResponse `json:"replies,omitempty"`
}

func toCommentResponse(c *comments.Comment) commentResponse {
	out := commentResponse{
		ID:         c.ID,
		StudyID:    c.StudyID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		ParentID:   c.ParentID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	for _, reply := range c.Replies {
		out.Replies = append(out.Replies, toCommentResponse(reply))
	}
	return out
}

func (s *Server) handleCommentList(w http.ResponseWriter, r *http.Request) {
	studyID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	thread, err := s.comments.ListByStudy(r.Context(), studyID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	out := make([]commentResponse, 0, len(thread))
	for _, c := range thread {
		out = append(out, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	studyID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid study id")
		return
	}
	var in struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parentId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	comment, err := s.comments.Create(r.Context(), studyID, p.ID, in.Content, in.ParentID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (s *Server) handleCommentUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	comment, err := s.comments.Update(r.Context(), id, p.ID, in.Content)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := s.comments.Delete(r.Context(), id, p.ID); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
