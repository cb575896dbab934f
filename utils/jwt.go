package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleKitchen  = "KITCHEN"
	RoleCaptain  = "CAPTAIN"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"

	// ScopeSession marks a customer token bound to one table session.
	ScopeSession = "session"
)

// Claims is the verified identity attached to every request.
type Claims struct {
	Role       string `json:"role"`
	StaffID    string `json:"staffId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	ProfileID  string `json:"profileId,omitempty"`
	BranchID   string `json:"branchId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Scope      string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry one of roles.
func (c *Claims) HasRole(roles ...string) bool {
	if c == nil {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// IsSessionCustomer reports whether the claims are a customer token for sessionID.
func (c *Claims) IsSessionCustomer(sessionID string) bool {
	return c != nil &&
		c.Scope == ScopeSession &&
		c.CustomerID != "" &&
		c.SessionID == sessionID
}

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "dinein",
	}
}

func (i *TokenIssuer) Sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    i.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
