package token_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/scribeav/go-transcribe-server/token"
)

func TestHMACSignerSignAndVerify(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)

	signed, err := signer.Sign(jwtlib.MapClaims{"user_id": 1})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := jwtlib.Parse(signed, signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{signer.GetSigningMethod().Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
}

func TestHMACSignerRejectsUnexpectedMethod(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)

	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{"user_id": 1})
	raw, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtlib.Parse(raw, signer.GetVerificationKey)
	require.Error(t, err)
}
