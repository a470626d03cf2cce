package users

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateName(ctx context.Context, id string, name string) error
	ListTechStacks(ctx context.Context, userID string) ([]string, error)
	ReplaceTechStacks(ctx context.Context, userID string, techs []string) error
}
