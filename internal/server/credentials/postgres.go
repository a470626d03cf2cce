package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/dbx"
)

// PostgresStore persists the refresh token on the user's own row. A single-
// row UPDATE gives per-subject atomicity: concurrent login/logout for the
// same subject resolve to last-completed-write-wins with no torn state.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Set(ctx context.Context, subject, token string) error {
	query :=
		`UPDATE users SET refresh_token = $2
		 WHERE email = $1
		 `

	res, err := s.db.ExecContext(ctx, query, subject, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Clear(ctx context.Context, subject string) error {
	query :=
		`UPDATE users SET refresh_token = NULL
		 WHERE email = $1
		 `

	res, err := s.db.ExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Get(ctx context.Context, subject string) (string, error) {
	query :=
		`SELECT refresh_token FROM users
		 WHERE email = $1
		 `

	var token sql.NullString
	err := s.db.QueryRowContext(ctx, query, subject).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	if !token.Valid || token.String == "" {
		return "", common.ErrNotFound
	}
	return token.String, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
