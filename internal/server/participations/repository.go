package participations

import "context"

type Repository interface {
	Create(ctx context.Context, p *Participation) (*Participation, error)
	FindByID(ctx context.Context, id int64) (*Participation, error)
	Exists(ctx context.Context, studyID int64, userID string) (bool, error)
	ListByStudy(ctx context.Context, studyID int64) ([]*Participation, error)
	ListByUser(ctx context.Context, userID string) ([]*Participation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
