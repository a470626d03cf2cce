package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(2)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE accounts (id INTEGER PRIMARY KEY, email TEXT)`)
	require.NoError(t, err)
	return db
}

func accountCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := openTestDB(t)

	err := WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO accounts(email) VALUES ('a@example.com')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, accountCount(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := openTestDB(t)

	err := WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts(email) VALUES ('b@example.com')`); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.Equal(t, 0, accountCount(t, db), "insert must be rolled back")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openTestDB(t)

	require.Panics(t, func() {
		_ = WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO accounts(email) VALUES ('c@example.com')`); err != nil {
				return err
			}
			panic("mid-transaction")
		})
	})
	require.Equal(t, 0, accountCount(t, db), "insert must be rolled back after panic")
}
