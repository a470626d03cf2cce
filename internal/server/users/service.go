package users

import (
	"context"

	"github.com/chillele/studymate/internal/logging"
)

// Profile is the public view of a user account.
type Profile struct {
	ID         string
	Email      string
	Name       string
	Role       string
	TechStacks []string
}

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "users")}
}

// Profile returns the user's profile including their tech stacks.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	techs, err := s.repo.ListTechStacks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		TechStacks: techs,
	}, nil
}

// UpdateProfile changes the display name and replaces the tech stack list.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string, techs []string) (*Profile, error) {
	if name != "" {
		if err := s.repo.UpdateName(ctx, userID, name); err != nil {
			return nil, err
		}
	}
	if techs != nil {
		if err := s.repo.ReplaceTechStacks(ctx, userID, techs); err != nil {
			return nil, err
		}
	}
	return s.Profile(ctx, userID)
}
