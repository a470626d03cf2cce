package comments

import (
	"context"
	"errors"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/studies"
)

type Service struct {
	repo    Repository
	studies studies.Repository
	logger  logging.Logger
}

func NewService(repo Repository, studyRepo studies.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, studies: studyRepo, logger: logger.With("module", "comments")}
}

// Create posts a comment, optionally as a reply. A parent comment must exist
// and belong to the same study.
func (s *Service) Create(ctx context.Context, studyID int64, authorID, content string, parentID *int64) (*Comment, error) {
	if _, err := s.studies.FindByID(ctx, studyID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.repo.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrNotFound
			}
			return nil, err
		}
		if parent.StudyID != studyID {
			return nil, common.ErrNotFound
		}
	}

	return s.repo.Create(ctx, &Comment{
		StudyID:  studyID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  content,
	})
}

// ListByStudy returns the study's comments as a two-level thread: top-level
// comments in order, each carrying its replies.
func (s *Service) ListByStudy(ctx context.Context, studyID int64) ([]*Comment, error) {
	flat, err := s.repo.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*Comment, len(flat))
	roots := []*Comment{}
	for _, c := range flat {
		if c.ParentID == nil {
			c.Replies = []*Comment{}
			byID[c.ID] = c
			roots = append(roots, c)
		}
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots, nil
}

// Update edits a comment. Only its author may update it.
func (s *Service) Update(ctx context.Context, commentID int64, userID, content string) (*Comment, error) {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, common.ErrForbidden
	}

	comment.Content = content
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. The comment's author and the study's author may
// both delete it.
func (s *Service) Delete(ctx context.Context, commentID int64, userID string) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	study, err := s.studies.FindByID(ctx, comment.StudyID)
	if err != nil {
		return err
	}

	if comment.AuthorID != userID && study.AuthorID != userID {
		return common.ErrForbidden
	}
	return s.repo.Delete(ctx, commentID)
}
