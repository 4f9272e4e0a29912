package sqliterepo

import (
	"context"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/internal/sqlitedb"
	"github.com/scribeav/go-transcribe-server/payments"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ payments.Repo = (*Repo)(nil)

// Repo stores payment rows in the shared SQLite database.
type Repo struct {
	pool *sqlitedb.Pool
}

func New(pool *sqlitedb.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, userID int64, quantity int64) (*payments.Payment, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "payment create: %v", err)
	}
	defer r.pool.Put(conn)

	payment := &payments.Payment{
		UserID:    userID,
		CreatedAt: NowTimeFunc().Unix(),
		Quantity:  quantity,
		Status:    payments.StatusPending,
	}

	err = sqlitex.Execute(conn,
		"INSERT INTO payment (user_id, create_at, quantity, status) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{payment.UserID, payment.CreatedAt, payment.Quantity, int(payment.Status)},
		},
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrPaymentFailed, "payment create for user %d: %v", userID, err)
	}

	payment.ID = conn.LastInsertRowID()
	return payment, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*payments.Payment, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "payment get: %v", err)
	}
	defer r.pool.Put(conn)

	var payment *payments.Payment
	err = sqlitex.Execute(conn,
		"SELECT id, user_id, create_at, quantity, status FROM payment WHERE id = ?",
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				payment = &payments.Payment{
					ID:        stmt.ColumnInt64(0),
					UserID:    stmt.ColumnInt64(1),
					CreatedAt: stmt.ColumnInt64(2),
					Quantity:  stmt.ColumnInt64(3),
					Status:    payments.Status(stmt.ColumnInt64(4)),
				}
				return nil
			},
		},
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "payment get %d: %v", id, err)
	}
	if payment == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return payment, nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status payments.Status) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrDependencyFailure, "payment set status: %v", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"UPDATE payment SET status = ? WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{int(status), id}},
	)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrPaymentFailed, "payment set status %d: %v", id, err)
	}
	if conn.Changes() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
