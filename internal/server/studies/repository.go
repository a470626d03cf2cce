package studies

import "context"

type Repository interface {
	Create(ctx context.Context, study *Study) (*Study, error)
	FindByID(ctx context.Context, id int64) (*Study, error)
	ListAll(ctx context.Context) ([]*Study, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*Study, error)
	FindLatestDraft(ctx context.Context, authorID string) (*Study, error)
	Update(ctx context.Context, study *Study) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) (int, error)
}
