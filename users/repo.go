package users

import "context"

// Repo is the data-access contract for user rows. GetByID and GetByName
// report a missing row with errors.ErrUserNotFound; infrastructure
// problems surface as errors.ErrDependencyFailure.
type Repo interface {
	Create(ctx context.Context, name string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	SetCredit(ctx context.Context, id int64, credit int64) error
}
