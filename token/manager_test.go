package token_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scribeav/go-transcribe-server/cache"
	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/token"
)

const (
	secretStr     = "test-secret-1234"
	testSubjectID = int64(42)
)

func newManager(t *testing.T) (*token.Manager, *cache.Store) {
	t.Helper()
	store := cache.New(time.Minute, time.Hour)
	t.Cleanup(store.Close)

	m := token.NewManager(token.NewHMACSigner(secretStr), store, 2*time.Minute, 6*time.Hour)
	return m, store
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m, _ := newManager(t)

	signed, err := m.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subjectID, err := m.Decode(token.KindAccess, signed)
	require.NoError(t, err)
	require.Equal(t, testSubjectID, subjectID)
}

func TestAccessTokenIsReusable(t *testing.T) {
	m, _ := newManager(t)

	signed, err := m.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		subjectID, err := m.Decode(token.KindAccess, signed)
		require.NoError(t, err)
		require.Equal(t, testSubjectID, subjectID)
	}
}

func TestAuthTokenRedeemsExactlyOnce(t *testing.T) {
	m, _ := newManager(t)

	signed, err := m.Issue(token.KindAuth, testSubjectID)
	require.NoError(t, err)

	subjectID, err := m.Decode(token.KindAuth, signed)
	require.NoError(t, err)
	require.Equal(t, testSubjectID, subjectID)

	// Signature is still valid, but the single-use entry is gone
	_, err = m.Decode(token.KindAuth, signed)
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}

func TestAuthTokenConcurrentRedemptionSingleWinner(t *testing.T) {
	m, _ := newManager(t)

	signed, err := m.Issue(token.KindAuth, testSubjectID)
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan int64, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if subjectID, err := m.Decode(token.KindAuth, signed); err == nil {
				wins <- subjectID
			}
		}()
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1)
	require.Equal(t, testSubjectID, <-wins)
}

func TestExpiredTokenIsDeniedAndExpired(t *testing.T) {
	m, _ := newManager(t)

	issuedAt := time.Now()
	token.NowTimeFunc = func() time.Time { return issuedAt.Add(-7 * time.Hour) }
	defer func() { token.NowTimeFunc = time.Now }()

	signed, err := m.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)

	_, err = m.Decode(token.KindAccess, signed)
	require.ErrorIs(t, err, apperrors.ErrAuthorizationExpired)
	// The expired case is a sub-case of denied
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}

func TestNegativeTTLFailsImmediately(t *testing.T) {
	store := cache.New(time.Minute, time.Hour)
	t.Cleanup(store.Close)
	m := token.NewManager(token.NewHMACSigner(secretStr), store, -time.Second, -time.Second)

	signed, err := m.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)

	_, err = m.Decode(token.KindAccess, signed)
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}

func TestTamperedTokenIsDenied(t *testing.T) {
	m, _ := newManager(t)

	signed, err := m.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)

	tampered := []byte(signed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = m.Decode(token.KindAccess, string(tampered))
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
	require.NotErrorIs(t, err, apperrors.ErrAuthorizationExpired)
}

func TestTokenSignedWithDifferentSecretIsDenied(t *testing.T) {
	m, _ := newManager(t)

	other := token.NewManager(token.NewHMACSigner("other-secret"), nil, 2*time.Minute, 6*time.Hour)
	signed, err := other.Issue(token.KindAccess, testSubjectID)
	require.NoError(t, err)

	_, err = m.Decode(token.KindAccess, signed)
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}

func TestAuthTokenCacheSubjectMismatchIsDenied(t *testing.T) {
	m, store := newManager(t)

	signed, err := m.Issue(token.KindAuth, testSubjectID)
	require.NoError(t, err)

	// Overwrite the single-use record with a different subject
	store.SetTTL(signed, int64(999), time.Minute)

	_, err = m.Decode(token.KindAuth, signed)
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}

func TestIssueAuthTokenWithoutStoreFails(t *testing.T) {
	m := token.NewManager(token.NewHMACSigner(secretStr), nil, 2*time.Minute, 6*time.Hour)

	_, err := m.Issue(token.KindAuth, testSubjectID)
	require.ErrorIs(t, err, apperrors.ErrDependencyFailure)
}

func TestGarbageTokenIsDenied(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Decode(token.KindAccess, "not-a-jwt")
	require.ErrorIs(t, err, apperrors.ErrAuthorizationDenied)
}
