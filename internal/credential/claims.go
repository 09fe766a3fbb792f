package credential

import (
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "resa/pkg/domain"
)

// Identity is the subject a token is issued for.
type Identity struct {
	UserID      id.UserID
	Username    string
	PhoneNumber string
	IsActive    bool
	IsStaff     bool
}

// Claims is the decoded token payload.
type Claims struct {
	UserID      id.UserID
	Username    string
	PhoneNumber string
	IsActive    bool
	IsStaff     bool
	// Expires is unix seconds with sub-second precision.
	Expires float64
}

// ExpiresAt converts Expires to a time.Time.
func (c *Claims) ExpiresAt() time.Time {
	sec, frac := math.Modf(c.Expires)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// tokenClaims is the wire shape. Pointer fields let Verify tell a missing
// claim from a zero value.
type tokenClaims struct {
	UserID      *int64   `json:"user_id"`
	Username    string   `json:"username"`
	PhoneNumber string   `json:"phone_number"`
	Expires     *float64 `json:"expires"`
	IsActive    bool     `json:"is_active"`
	IsStaff     bool     `json:"is_staff"`
}

func newTokenClaims(ident Identity, expires float64) *tokenClaims {
	uid := int64(ident.UserID)
	return &tokenClaims{
		UserID:      &uid,
		Username:    ident.Username,
		PhoneNumber: ident.PhoneNumber,
		Expires:     &expires,
		IsActive:    ident.IsActive,
		IsStaff:     ident.IsStaff,
	}
}

func (c *tokenClaims) toClaims() (*Claims, bool) {
	if c.UserID == nil || *c.UserID <= 0 || c.Expires == nil {
		return nil, false
	}
	return &Claims{
		UserID:      id.UserID(*c.UserID),
		Username:    c.Username,
		PhoneNumber: c.PhoneNumber,
		IsActive:    c.IsActive,
		IsStaff:     c.IsStaff,
		Expires:     *c.Expires,
	}, true
}

// jwt.Claims implementation. Registered claims are not used; expiry is the
// custom "expires" field and is checked by Verify.

func (c *tokenClaims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c *tokenClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c *tokenClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *tokenClaims) GetIssuer() (string, error)                   { return "", nil }
func (c *tokenClaims) GetSubject() (string, error)                  { return "", nil }
func (c *tokenClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }
