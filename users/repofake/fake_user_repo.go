package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	lock    sync.RWMutex
	nextID  int64
	byID    map[int64]*users.User
	nameIds map[string]int64 // name to user id
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		nextID:  1,
		byID:    make(map[int64]*users.User),
		nameIds: make(map[string]int64),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, name string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user := &users.User{
		ID:        ur.nextID,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	ur.nextID++
	ur.byID[user.ID] = user
	ur.nameIds[name] = user.ID

	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByName(_ context.Context, name string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.nameIds[name]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *ur.byID[id]
	return &copied, nil
}

func (ur *FakeUserRepo) SetCredit(_ context.Context, id int64, credit int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Credit = credit
	return nil
}

// Delete removes a user, for tests that exercise the
// authenticated-but-deleted principal path.
func (ur *FakeUserRepo) Delete(id int64) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.byID[id]
	if !ok {
		return
	}
	delete(ur.nameIds, user.Name)
	delete(ur.byID, id)
}
