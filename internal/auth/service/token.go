// Package service issues and verifies identity tokens
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/magicalwebsite/backend/internal/models"
)

const accessTokenType = "access"

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// GenerateToken creates an access token bound to the user's email
func (tg *TokenGenerator) GenerateToken(email string) (string, error) {
	now := tg.now()
	claims := jwt.MapClaims{
		"email": email,
		"exp":   now.Add(tg.accessTokenExpiry).Unix(),
		"iat":   now.Unix(),
		"type":  accessTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an access token and returns the email it is bound to.
// Expired tokens yield models.ErrTokenExpired; any other failure yields models.ErrInvalidToken.
func (tg *TokenGenerator) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, jwt.WithTimeFunc(tg.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("failed to parse token: %w", models.ErrTokenExpired)
		}
		return "", fmt.Errorf("failed to parse token: %w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", models.ErrInvalidToken)
	}

	// Check token type
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != accessTokenType {
		return "", fmt.Errorf("token is not an access token: %w", models.ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in token: %w", models.ErrInvalidToken)
	}

	return email, nil
}
