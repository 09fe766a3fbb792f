// Package credential hashes and verifies passwords and issues and decodes
// the signed bearer tokens that carry user identity and role.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "resa/pkg/domain-errors"
	"resa/pkg/requestcontext"
	"resa/pkg/secrets"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 36000 * time.Second

// Internal decode failure modes. DecodeToken collapses them to nil.
var (
	ErrSignatureInvalid  = errors.New("token signature invalid")
	ErrAlgorithmMismatch = errors.New("token algorithm mismatch")
	ErrMalformedToken    = errors.New("token malformed")
	ErrTokenExpired      = errors.New("token expired")
)

// Config is built once at startup from configuration.
type Config struct {
	Secret    string
	Algorithm string
	TokenTTL  time.Duration
	// HashCost overrides the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// Service implements password and token operations.
type Service struct {
	key      []byte
	method   jwt.SigningMethod
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("credential: signing secret is required")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("credential: unsupported signing algorithm %q", alg)
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &Service{
		key:      []byte(cfg.Secret),
		method:   method,
		ttl:      ttl,
		hashCost: cfg.HashCost,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) HashPassword(plain string) (string, error) {
	if s.hashCost > 0 {
		return secrets.HashWithCost(plain, s.hashCost)
	}
	return secrets.Hash(plain)
}

func (s *Service) VerifyPassword(plain, digest string) bool {
	return secrets.Verify(plain, digest) == nil
}

// IssueToken signs the identity with an expiry of now+TTL.
func (s *Service) IssueToken(ctx context.Context, ident Identity) (string, error) {
	if ident.UserID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	expires := unixSeconds(s.now().Add(s.ttl))
	token := jwt.NewWithClaims(s.method, newTokenClaims(ident, expires))
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	s.logger.DebugContext(ctx, "token issued",
		"user_id", ident.UserID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return signed, nil
}

// DecodeToken returns the claims of a valid, unexpired token and nil for
// anything else. It never returns an error or panics.
func (s *Service) DecodeToken(ctx context.Context, token string) *Claims {
	claims, err := s.Verify(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected",
			"reason", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}
	return claims
}

// Verify decodes a token and reports why it was rejected.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}
	raw := new(tokenClaims)
	_, err := jwt.ParseWithClaims(token, raw, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, ErrAlgorithmMismatch
		}
		return s.key, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgorithmMismatch):
			return nil, ErrAlgorithmMismatch
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	claims, ok := raw.toClaims()
	if !ok {
		return nil, fmt.Errorf("%w: missing user_id or expires", ErrMalformedToken)
	}
	if unixSeconds(s.now()) >= claims.Expires {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
