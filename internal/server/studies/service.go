package studies

import (
	"context"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/logging"
)

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "studies")}
}

func (s *Service) Create(ctx context.Context, authorID string, in Input) (*Study, error) {
	return s.repo.Create(ctx, &Study{
		AuthorID:     authorID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Category:     in.Category,
		Schedule:     in.Schedule,
		Location:     in.Location,
		RecruitCount: in.RecruitCount,
		Curriculum:   in.Curriculum,
	})
}

func (s *Service) List(ctx context.Context) ([]*Study, error) {
	return s.repo.ListAll(ctx)
}

// Get returns the study and counts the view.
func (s *Service) Get(ctx context.Context, id int64) (*Study, error) {
	study, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	study.Views = views
	return study, nil
}

// Update modifies a study post. Only its author may update it.
func (s *Service) Update(ctx context.Context, id int64, userID string, in Input) (*Study, error) {
	study, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if study.AuthorID != userID {
		return nil, common.ErrForbidden
	}

	study.Title = in.Title
	study.Description = in.Description
	study.Status = in.Status
	study.Category = in.Category
	study.Schedule = in.Schedule
	study.Location = in.Location
	study.RecruitCount = in.RecruitCount
	study.Curriculum = in.Curriculum

	if err := s.repo.Update(ctx, study); err != nil {
		return nil, err
	}
	return study, nil
}

// Delete removes a study post. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	study, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if study.AuthorID != userID {
		return common.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) MyPosts(ctx context.Context, userID string) ([]*Study, error) {
	return s.repo.ListByAuthor(ctx, userID)
}

// SaveDraft stores an unfinished study post. Drafts never appear in listings.
func (s *Service) SaveDraft(ctx context.Context, authorID string, in Input) (*Study, error) {
	return s.repo.Create(ctx, &Study{
		AuthorID:     authorID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Category:     in.Category,
		Schedule:     in.Schedule,
		Location:     in.Location,
		RecruitCount: in.RecruitCount,
		Curriculum:   in.Curriculum,
		IsTemp:       true,
	})
}

// LatestDraft returns the author's most recent draft, or ErrNotFound.
func (s *Service) LatestDraft(ctx context.Context, authorID string) (*Study, error) {
	return s.repo.FindLatestDraft(ctx, authorID)
}
