package workflows

import "context"

// Repo is the data-access contract for workflow rows. New rows always
// start in StatusTodo.
type Repo interface {
	Create(ctx context.Context, userID int64, args Args, typ Type) (*Workflow, error)
	ListByUser(ctx context.Context, userID int64, typ Type) ([]*Workflow, error)
}
