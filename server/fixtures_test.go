package server_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/scribeav/go-transcribe-server/cache"
	"github.com/scribeav/go-transcribe-server/internal/config"
	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/payments"
	"github.com/scribeav/go-transcribe-server/server"
	"github.com/scribeav/go-transcribe-server/token"
	"github.com/scribeav/go-transcribe-server/users"
	fakeuserrepo "github.com/scribeav/go-transcribe-server/users/repofake"
	"github.com/scribeav/go-transcribe-server/workflows"
)

const (
	secretStr     = "test-secret-1234"
	testUserEmail = "john.doe@example.com"
)

// testFixture wires a Server around in-memory fakes.
type testFixture struct {
	userRepo     *fakeuserrepo.FakeUserRepo
	workflowRepo *fakeWorkflowRepo
	paymentRepo  *fakePaymentRepo
	tokens       *token.Manager
	store        *cache.Store
	google       *fakeGoogleProvider
	checkout     *fakeCheckout
	server       *server.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	store := cache.New(10*time.Minute, time.Hour)
	t.Cleanup(store.Close)

	f := &testFixture{
		userRepo:     fakeuserrepo.NewFakeUserRepo(),
		workflowRepo: newFakeWorkflowRepo(),
		paymentRepo:  newFakePaymentRepo(),
		store:        store,
		google:       &fakeGoogleProvider{email: testUserEmail},
		checkout:     &fakeCheckout{url: "https://checkout.example.com/session-1"},
	}
	f.tokens = token.NewManager(token.NewHMACSigner(secretStr), store, 2*time.Minute, 6*time.Hour)

	srv, err := server.New(config.New(), server.Deps{
		Users:     f.userRepo,
		Workflows: f.workflowRepo,
		Payments:  f.paymentRepo,
		Tokens:    f.tokens,
		State:     store,
		Google:    f.google,
		Checkout:  f.checkout,
	})
	require.NoError(t, err)
	f.server = srv

	return f
}

// loginUser creates a user and returns it along with an access-token
// cookie, skipping the OAuth dance.
func (f *testFixture) loginUser(t *testing.T, name string) (*users.User, *http.Cookie) {
	t.Helper()

	user, err := f.userRepo.Create(context.Background(), name)
	require.NoError(t, err)

	return user, f.accessCookie(t, user.ID)
}

func (f *testFixture) accessCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()

	signed, err := f.tokens.Issue(token.KindAccess, userID)
	require.NoError(t, err)
	return &http.Cookie{Name: "Authorization", Value: "Bearer " + signed}
}

// fakeGoogleProvider satisfies googleauth.Provider without the network.
type fakeGoogleProvider struct {
	email       string
	exchangeErr error
	emailErr    error
}

func (p *fakeGoogleProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (p *fakeGoogleProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	if code == "" {
		return nil, apperrors.ErrAuthorizationDenied
	}
	return &oauth2.Token{AccessToken: "fake-access-token"}, nil
}

func (p *fakeGoogleProvider) VerifiedEmail(_ context.Context, _ *oauth2.Token) (string, error) {
	if p.emailErr != nil {
		return "", p.emailErr
	}
	return p.email, nil
}

// fakeCheckout satisfies payments.CheckoutClient.
type fakeCheckout struct {
	url        string
	err        error
	successURL string
	cancelURL  string
	quantity   int64
}

func (c *fakeCheckout) CreateSession(_ context.Context, _ string, quantity int64, successURL, cancelURL string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.quantity = quantity
	c.successURL = successURL
	c.cancelURL = cancelURL
	return c.url, nil
}

type fakeWorkflowRepo struct {
	lock   sync.Mutex
	nextID int64
	rows   []*workflows.Workflow
	err    error
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{nextID: 1}
}

func (r *fakeWorkflowRepo) Create(_ context.Context, userID int64, args workflows.Args, typ workflows.Type) (*workflows.Workflow, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	workflow := &workflows.Workflow{
		ID:        r.nextID,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
		Args:      args,
		Type:      typ,
		Status:    workflows.StatusTodo,
	}
	r.nextID++
	r.rows = append(r.rows, workflow)

	copied := *workflow
	return &copied, nil
}

func (r *fakeWorkflowRepo) ListByUser(_ context.Context, userID int64, typ workflows.Type) ([]*workflows.Workflow, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	var result []*workflows.Workflow
	for _, workflow := range r.rows {
		if workflow.UserID == userID && workflow.Type == typ {
			copied := *workflow
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakePaymentRepo struct {
	lock   sync.Mutex
	nextID int64
	byID   map[int64]*payments.Payment
	err    error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1, byID: make(map[int64]*payments.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, userID int64, quantity int64) (*payments.Payment, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	payment := &payments.Payment{
		ID:        r.nextID,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
		Quantity:  quantity,
		Status:    payments.StatusPending,
	}
	r.nextID++
	r.byID[payment.ID] = payment

	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) Get(_ context.Context, id int64) (*payments.Payment, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	payment, ok := r.byID[id]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrResourceNotFound, "payment %d", id)
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) SetStatus(_ context.Context, id int64, status payments.Status) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	payment, ok := r.byID[id]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrResourceNotFound, "payment %d", id)
	}
	payment.Status = status
	return nil
}

func (r *fakePaymentRepo) status(t *testing.T, id int64) payments.Status {
	t.Helper()
	r.lock.Lock()
	defer r.lock.Unlock()

	payment, ok := r.byID[id]
	require.True(t, ok, fmt.Sprintf("payment %d does not exist", id))
	return payment.Status
}
