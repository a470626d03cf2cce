package participations

import (
	"context"
	"fmt"

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
	return &Service{repo: repo, studies: studyRepo, logger: logger.With("module", "participations")}
}

// Apply files a pending application of userID to the study. Applying to your
// own study or applying twice is rejected.
func (s *Service) Apply(ctx context.Context, studyID int64, userID string) (*Participation, error) {
	study, err := s.studies.FindByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if study.AuthorID == userID {
		return nil, common.ErrOwnStudy
	}

	exists, err := s.repo.Exists(ctx, studyID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrAlreadyApplied
	}

	p, err := s.repo.Create(ctx, &Participation{
		StudyID: studyID,
		UserID:  userID,
		Status:  StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "participation applied", "study_id", studyID, "user_id", userID)
	return p, nil
}

// ListByStudy returns all applications for the study. Only the study's author
// may view them.
func (s *Service) ListByStudy(ctx context.Context, studyID int64, userID string) ([]*Participation, error) {
	study, err := s.studies.FindByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if study.AuthorID != userID {
		return nil, common.ErrForbidden
	}
	return s.repo.ListByStudy(ctx, studyID)
}

// ListMine returns the user's own applications across all studies.
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Participation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SetStatus moves an application to APPROVED or REJECTED. Only the study's
// author may decide, and the application must belong to the given study.
func (s *Service) SetStatus(ctx context.Context, studyID, participationID int64, userID, status string) (*Participation, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidStatus, status)
	}

	study, err := s.studies.FindByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if study.AuthorID != userID {
		return nil, common.ErrForbidden
	}

	p, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		return nil, err
	}
	if p.StudyID != studyID {
		return nil, common.ErrNotFound
	}

	if err := s.repo.UpdateStatus(ctx, participationID, status); err != nil {
		return nil, err
	}
	p.Status = status
	s.logger.Info(ctx, "participation status updated",
		"study_id", studyID, "participation_id", participationID, "status", status)
	return p, nil
}
