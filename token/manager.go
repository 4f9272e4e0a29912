// Package token implements the two-tier bearer token scheme: a short-lived
// one-time auth token handed out after the Google callback, and a
// longer-lived access token presented on every authenticated request. Both
// are HMAC-signed JWTs carrying {user_id, exp}; the auth token additionally
// has a cache entry whose consumption enforces exactly-once redemption.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/scribeav/go-transcribe-server/cache"
	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// subjectClaim carries the authenticated user's numeric ID.
const subjectClaim = "user_id"

// Kind selects the token tier. The two kinds share issuance and
// verification; KindAuth adds the single-use cache check on decode.
type Kind int

const (
	// KindAuth is the one-time credential exchanged for an access token.
	KindAuth Kind = iota
	// KindAccess is the reusable credential bound to the auth cookie.
	KindAccess
)

func (k Kind) String() string {
	if k == KindAuth {
		return "auth"
	}
	return "access"
}

// Manager issues and decodes both token kinds. Construct one per process
// and inject it; it is safe for concurrent use.
type Manager struct {
	signer    Signer
	store     *cache.Store
	authTTL   time.Duration
	accessTTL time.Duration
}

// NewManager wires a Manager. The cache store is only consulted for
// KindAuth tokens but is required: issuing an auth token without the
// single-use record would leave a replayable credential.
func NewManager(signer Signer, store *cache.Store, authTTL, accessTTL time.Duration) *Manager {
	return &Manager{
		signer:    signer,
		store:     store,
		authTTL:   authTTL,
		accessTTL: accessTTL,
	}
}

// Issue builds claims {user_id, exp = now + ttl} and returns the signed
// token string. For KindAuth the token string is also recorded in the
// cache mapped to subjectID; the token must not reach the client unless
// both steps succeed.
func (m *Manager) Issue(kind Kind, subjectID int64) (string, error) {
	ttl := m.ttl(kind)
	claims := jwtlib.MapClaims{
		subjectClaim: subjectID,
		"exp":        NowTimeFunc().Add(ttl).Unix(),
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrDependencyFailure, "signing %s token: %v", kind, err)
	}

	if kind == KindAuth {
		if m.store == nil {
			return "", apperrors.Wrapf(apperrors.ErrDependencyFailure, "no cache store for single-use %s token", kind)
		}
		m.store.SetTTL(signed, subjectID, ttl)
	}

	return signed, nil
}

// Decode verifies the token string and returns the subject ID.
//
// For KindAccess this is signature + expiry only and can be repeated until
// the token expires. For KindAuth the live cache entry must exist and carry
// the same subject the signature encodes; a successful decode consumes the
// entry, so a second decode of the same string is denied. The check and the
// delete are one atomic cache operation, which keeps two concurrent
// redemptions of the same token from both succeeding.
func (m *Manager) Decode(kind Kind, raw string) (int64, error) {
	subjectID, err := m.verify(raw)
	if err != nil {
		return 0, err
	}

	if kind == KindAccess {
		return subjectID, nil
	}

	found, matched := m.store.CompareAndDelete(raw, subjectID)
	if !found {
		log.Error().Msg("auth token has no live cache entry, already redeemed or expired")
		return 0, apperrors.ErrAuthorizationDenied
	}
	if !matched {
		log.Error().Int64("signed_subject", subjectID).Msg("auth token cache entry carries a different subject")
		return 0, apperrors.ErrAuthorizationDenied
	}

	return subjectID, nil
}

// verify parses the signed string and extracts the subject claim. Every
// failure cause (bad signature, expired, missing claims) collapses to
// ErrAuthorizationDenied; the expired case returns ErrAuthorizationExpired,
// which wraps it, so callers that don't care see one error.
func (m *Manager) verify(raw string) (int64, error) {
	parsed, err := jwtlib.ParseWithClaims(raw, jwtlib.MapClaims{}, m.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode token")
		if apperrors.Is(err, jwtlib.ErrTokenExpired) {
			return 0, apperrors.ErrAuthorizationExpired
		}
		return 0, apperrors.ErrAuthorizationDenied
	}
	if !parsed.Valid {
		return 0, apperrors.ErrAuthorizationDenied
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return 0, apperrors.ErrAuthorizationDenied
	}

	// JSON numbers decode as float64
	subject, ok := claims[subjectClaim].(float64)
	if !ok {
		log.Error().Msg("decoded token is missing the subject claim")
		return 0, apperrors.ErrAuthorizationDenied
	}

	return int64(subject), nil
}

func (m *Manager) ttl(kind Kind) time.Duration {
	if kind == KindAuth {
		return m.authTTL
	}
	return m.accessTTL
}
