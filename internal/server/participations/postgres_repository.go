package participations

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

func (r *PostgresRepository) Create(ctx context.Context, p *Participation) (*Participation, error) {
	query := `INSERT INTO participations (study_id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.StudyID, p.UserID, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting participation: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*Participation, error) {
	query := `SELECT p.id, p.study_id, p.user_id, p.status, p.created_at, p.updated_at,
			u.name, s.title
		FROM participations p
		JOIN users u ON u.id = p.user_id
		JOIN studies s ON s.id = p.study_id
		WHERE p.id = $1`

	p := &Participation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.StudyID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&p.UserName, &p.StudyTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting participation: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, studyID int64, userID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM participations WHERE study_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, studyID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking participation existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByStudy(ctx context.Context, studyID int64) ([]*Participation, error) {
	query := `SELECT p.id, p.study_id, p.user_id, p.status, p.created_at, p.updated_at,
			u.name, s.title
		FROM participations p
		JOIN users u ON u.id = p.user_id
		JOIN studies s ON s.id = p.study_id
		WHERE p.study_id = $1
		ORDER BY p.created_at`

	return r.list(ctx, query, studyID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Participation, error) {
	query := `SELECT p.id, p.study_id, p.user_id, p.status, p.created_at, p.updated_at,
			u.name, s.title
		FROM participations p
		JOIN users u ON u.id = p.user_id
		JOIN studies s ON s.id = p.study_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`

	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*Participation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("selecting participations: %w", err)
	}
	defer rows.Close()

	out := []*Participation{}
	for rows.Next() {
		p := &Participation{}
		if err := rows.Scan(
			&p.ID, &p.StudyID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&p.UserName, &p.StudyTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning participation: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participations: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE participations SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("updating participation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating participation status: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
