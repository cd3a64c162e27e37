package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidHeader = errors.New("invalid Authorization format (expected: Bearer <token>)")
	ErrInvalidToken  = errors.New("invalid token")
)

// Token is a signed bearer token handed to a client.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken signs an HS256 token whose subject is the user's id.
func (g *Gate) IssueToken(userID primitive.ObjectID) (Token, error) {
	if userID.IsZero() {
		return Token{}, errors.New("cannot issue token for empty user id")
	}

	now := time.Now().UTC()
	exp := now.Add(g.ttl)
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    g.issuer,
		Subject:   userID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signKey)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// ParseToken validates signature, issuer and expiry and returns the subject
// user id as a hex string.
func (g *Gate) ParseToken(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return g.signKey, nil
	},
		jwt.WithIssuer(g.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if _, err := primitive.ObjectIDFromHex(sub); err != nil {
		return "", fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return sub, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidHeader
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}
