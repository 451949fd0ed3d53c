package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "codepath",
		Audience:  jwt.ClaimStrings{"codepath-api"},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestJWTProviderVerify(t *testing.T) {
	p, err := NewJWTProvider(logger.Nop(), JWTConfig{SecretKey: testSecret, Issuer: "codepath", Audience: "codepath-api"})
	require.NoError(t, err)
	ctx := context.Background()

	learnerID, err := p.Verify(ctx, sign(t, testSecret, jwt.SigningMethodHS256, validClaims("42")))
	require.NoError(t, err)
	assert.Equal(t, "42", learnerID)

	expired := validClaims("42")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := validClaims("42")
	wrongIssuer.Issuer = "someone-else"
	noSubject := validClaims("")
	noExpiry := validClaims("42")
	noExpiry.ExpiresAt = nil

	rejected := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": sign(t, "other-secret", jwt.SigningMethodHS256, validClaims("42")),
		"wrong alg":    sign(t, testSecret, jwt.SigningMethodHS512, validClaims("42")),
		"expired":      sign(t, testSecret, jwt.SigningMethodHS256, expired),
		"issuer":       sign(t, testSecret, jwt.SigningMethodHS256, wrongIssuer),
		"no subject":   sign(t, testSecret, jwt.SigningMethodHS256, noSubject),
		"no expiry":    sign(t, testSecret, jwt.SigningMethodHS256, noExpiry),
	}
	for name, tok := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := p.Verify(ctx, tok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
		})
	}
}

func TestNewJWTProviderRequiresSecret(t *testing.T) {
	_, err := NewJWTProvider(logger.Nop(), JWTConfig{SecretKey: "  "})
	assert.Error(t, err)
}
