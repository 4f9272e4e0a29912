package sqliterepo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/internal/sqlitedb"
	"github.com/scribeav/go-transcribe-server/workflows"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// listMax caps a single listing; nobody pages through more than this.
const listMax = 1000

var _ workflows.Repo = (*Repo)(nil)

// Repo stores workflow rows in the shared SQLite database.
type Repo struct {
	pool *sqlitedb.Pool
}

func New(pool *sqlitedb.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, userID int64, args workflows.Args, typ workflows.Type) (*workflows.Workflow, error) {
	argsJSON, err := args.ToJSON()
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "workflow args encode: %v", err)
	}

	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "workflow create: %v", err)
	}
	defer r.pool.Put(conn)

	workflow := &workflows.Workflow{
		UserID:    userID,
		CreatedAt: NowTimeFunc().Unix(),
		Args:      args,
		Type:      typ,
		Status:    workflows.StatusTodo,
	}

	err = sqlitex.Execute(conn,
		"INSERT INTO workflow (user_id, create_at, args, type, status) VALUES (?, ?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{workflow.UserID, workflow.CreatedAt, argsJSON, int(workflow.Type), int(workflow.Status)},
		},
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "workflow create for user %d: %v", userID, err)
	}

	workflow.ID = conn.LastInsertRowID()
	return workflow, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID int64, typ workflows.Type) ([]*workflows.Workflow, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "workflow list: %v", err)
	}
	defer r.pool.Put(conn)

	var result []*workflows.Workflow
	err = sqlitex.Execute(conn,
		"SELECT id, user_id, create_at, args, type, status FROM workflow WHERE user_id = ? AND type = ? LIMIT ?",
		&sqlitex.ExecOptions{
			Args: []any{userID, int(typ), listMax},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				args, parseErr := workflows.ParseArgs(stmt.ColumnText(3))
				if parseErr != nil {
					// A row with unreadable args should not poison the
					// whole listing.
					log.Error().Err(parseErr).Int64("workflow_id", stmt.ColumnInt64(0)).Msg("skipping workflow with invalid args JSON")
					return nil
				}
				result = append(result, &workflows.Workflow{
					ID:        stmt.ColumnInt64(0),
					UserID:    stmt.ColumnInt64(1),
					CreatedAt: stmt.ColumnInt64(2),
					Args:      args,
					Type:      workflows.Type(stmt.ColumnInt64(4)),
					Status:    workflows.Status(stmt.ColumnInt64(5)),
				})
				return nil
			},
		},
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependencyFailure, "workflow list for user %d: %v", userID, err)
	}
	return result, nil
}
