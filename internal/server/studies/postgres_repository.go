package studies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/dbx"
)

const studyColumns = `s.id, s.author_id, s.title, s.description, s.status, s.category,
	 s.schedule, s.location, s.recruit_count, s.curriculum, s.views, s.is_temp,
	 s.created_at, s.updated_at, u.name`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, study *Study) (*Study, error) {
	query :=
		`INSERT INTO studies (author_id, title, description, status, category,
		     schedule, location, recruit_count, curriculum, is_temp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, views, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		study.AuthorID, study.Title, study.Description, study.Status, study.Category,
		study.Schedule, study.Location, study.RecruitCount, study.Curriculum, study.IsTemp).
		Scan(&study.ID, &study.Views, &study.CreatedAt, &study.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return study, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*Study, error) {
	query := `SELECT ` + studyColumns + `
		 FROM studies s JOIN users u ON u.id = s.author_id
		 WHERE s.id = $1
		 `

	return r.scanStudy(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Study, error) {
	query := `SELECT ` + studyColumns + `
		 FROM studies s JOIN users u ON u.id = s.author_id
		 WHERE s.is_temp = FALSE
		 ORDER BY s.created_at DESC
		 `

	return r.queryStudies(ctx, query)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*Study, error) {
	query := `SELECT ` + studyColumns + `
		 FROM studies s JOIN users u ON u.id = s.author_id
		 WHERE s.author_id = $1 AND s.is_temp = FALSE
		 ORDER BY s.created_at DESC
		 `

	return r.queryStudies(ctx, query, authorID)
}

func (r *PostgresRepository) FindLatestDraft(ctx context.Context, authorID string) (*Study, error) {
	query := `SELECT ` + studyColumns + `
		 FROM studies s JOIN users u ON u.id = s.author_id
		 WHERE s.author_id = $1 AND s.is_temp = TRUE
		 ORDER BY s.created_at DESC
		 LIMIT 1
		 `

	return r.scanStudy(r.db.QueryRowContext(ctx, query, authorID))
}

func (r *PostgresRepository) Update(ctx context.Context, study *Study) error {
	query :=
		`UPDATE studies
		 SET title = $2, description = $3, status = $4, category = $5,
		     schedule = $6, location = $7, recruit_count = $8, curriculum = $9,
		     updated_at = NOW()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		study.ID, study.Title, study.Description, study.Status, study.Category,
		study.Schedule, study.Location, study.RecruitCount, study.Curriculum)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM studies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id int64) (int, error) {
	query :=
		`UPDATE studies SET views = views + 1
		 WHERE id = $1
		 RETURNING views
		 `

	var views int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

func (r *PostgresRepository) scanStudy(row *sql.Row) (*Study, error) {
	s := &Study{}
	err := row.Scan(&s.ID, &s.AuthorID, &s.Title, &s.Description, &s.Status, &s.Category,
		&s.Schedule, &s.Location, &s.RecruitCount, &s.Curriculum, &s.Views, &s.IsTemp,
		&s.CreatedAt, &s.UpdatedAt, &s.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) queryStudies(ctx context.Context, query string, args ...any) ([]*Study, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []*Study{}
	for rows.Next() {
		s := &Study{}
		if err := rows.Scan(&s.ID, &s.AuthorID, &s.Title, &s.Description, &s.Status, &s.Category,
			&s.Schedule, &s.Location, &s.RecruitCount, &s.Curriculum, &s.Views, &s.IsTemp,
			&s.CreatedAt, &s.UpdatedAt, &s.AuthorName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
