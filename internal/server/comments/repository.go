package comments

import "context"

type Repository interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	FindByID(ctx context.Context, id int64) (*Comment, error)
	ListByStudy(ctx context.Context, studyID int64) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id int64) error
}
