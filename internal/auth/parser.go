package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
)

var ErrMissingSubject = errors.New("token has no subject")

type Claims struct {
	SessionID  uuid.UUID      `json:"sid"`
	UserID     uuid.UUID      `json:"sub"`
	Role       model.UserRole `json:"role"`
	CustomerID *uuid.UUID     `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal maps the claims onto the caller used by the services.
func (c *Claims) Principal() model.Principal {
	return model.Principal{
		UserID:     c.UserID,
		Role:       c.Role,
		CustomerID: c.CustomerID,
	}
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// Sign issues an HS256 token for claims. Tokens are normally minted by the
// identity service; this is used by the dev token command and tests.
func (p *Parser) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
