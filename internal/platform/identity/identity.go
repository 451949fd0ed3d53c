package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

// Provider verifies bearer tokens issued elsewhere and yields the learner id they carry.
type Provider interface {
	Verify(ctx context.Context, token string) (string, error)
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

type jwtProvider struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewJWTProvider(log *logger.Logger, cfg JWTConfig) (Provider, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, fmt.Errorf("identity: JWT secret key is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	return &jwtProvider{
		log:    log.With("component", "JWTProvider"),
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (p *jwtProvider) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("missing token: %w", errs.ErrUnauthenticated)
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := p.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		p.log.Debug("token rejected", "error", err)
		return "", fmt.Errorf("invalid or expired token: %w", errs.ErrUnauthenticated)
	}
	if !parsed.Valid {
		return "", fmt.Errorf("invalid or expired token: %w", errs.ErrUnauthenticated)
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", fmt.Errorf("token has no subject: %w", errs.ErrUnauthenticated)
	}
	return sub, nil
}
