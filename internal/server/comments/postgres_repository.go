package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	query :=
		`INSERT INTO comments (study_id, author_id, parent_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.StudyID, comment.AuthorID, comment.ParentID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*Comment, error) {
	query :=
		`SELECT c.id, c.study_id, c.author_id, c.parent_id, c.content,
		        c.created_at, c.updated_at, u.name
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.id = $1
		 `

	c := &Comment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.StudyID, &c.AuthorID, &c.ParentID, &c.Content,
			&c.CreatedAt, &c.UpdatedAt, &c.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByStudy(ctx context.Context, studyID int64) ([]*Comment, error) {
	query :=
		`SELECT c.id, c.study_id, c.author_id, c.parent_id, c.content,
		        c.created_at, c.updated_at, u.name
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.study_id = $1
		 ORDER BY c.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, studyID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []*Comment{}
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.StudyID, &c.AuthorID, &c.ParentID, &c.Content,
			&c.CreatedAt, &c.UpdatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, comment *Comment) error {
	query :=
		`UPDATE comments SET content = $2, updated_at = NOW()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, comment.ID, comment.Content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
