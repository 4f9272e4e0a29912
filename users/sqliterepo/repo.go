package sqliterepo

import (
	"context"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/internal/sqlitedb"
	"github.com/scribeav/go-transcribe-server/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ users.Repo = (*Repo)(nil)

// Repo stores user rows in the shared SQLite database.
type Repo struct {
	pool *sqlitedb.Pool
}

func New(pool *sqlitedb.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, name string) (*users.User, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "users create: %v", err)
	}
	defer r.pool.Put(conn)

	createAt := NowTimeFunc().Unix()
	err = sqlitex.Execute(conn,
		"INSERT INTO users (name, credit, create_at) VALUES (?, 0, ?)",
		&sqlitex.ExecOptions{Args: []any{name, createAt}},
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "users create %q: %v", name, err)
	}

	return &users.User{
		ID:        conn.LastInsertRowID(),
		Name:      name,
		Credit:    0,
		CreatedAt: createAt,
	}, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return r.getBy(ctx,
		"SELECT id, name, credit, create_at FROM users WHERE id = ?",
		[]any{id})
}

func (r *Repo) GetByName(ctx context.Context, name string) (*users.User, error) {
	return r.getBy(ctx,
		"SELECT id, name, credit, create_at FROM users WHERE name = ?",
		[]any{name})
}

func (r *Repo) SetCredit(ctx context.Context, id int64, credit int64) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrDependencyFailure, "users set credit: %v", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"UPDATE users SET credit = ? WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{credit, id}},
	)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrDependencyFailure, "users set credit for %d: %v", id, err)
	}
	if conn.Changes() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *Repo) getBy(ctx context.Context, query string, args []any) (*users.User, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "users get: %v", err)
	}
	defer r.pool.Put(conn)

	var user *users.User
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			user = &users.User{
				ID:        stmt.ColumnInt64(0),
				Name:      stmt.ColumnText(1),
				Credit:    stmt.ColumnInt64(2),
				CreatedAt: stmt.ColumnInt64(3),
			}
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "users get: %v", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
