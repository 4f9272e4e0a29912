// Package payments records credit purchases. A payment row is created in
// StatusPending before the user is sent to the processor's checkout page;
// the return handlers transition it and credit the user's balance.
package payments

import "context"

// Status is the payment lifecycle state.
type Status int

const (
	StatusPending Status = iota + 1
	StatusSuccess
	StatusCanceled
	StatusFailed
)

type Payment struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	CreatedAt int64  `json:"create_at"`
	Quantity  int64  `json:"quantity"` // transcription minutes purchased
	Status    Status `json:"status"`
}

// Repo is the data-access contract for payment rows. Get reports a
// missing row with errors.ErrResourceNotFound.
type Repo interface {
	Create(ctx context.Context, userID int64, quantity int64) (*Payment, error)
	Get(ctx context.Context, id int64) (*Payment, error)
	SetStatus(ctx context.Context, id int64, status Status) error
}
