package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost = 8
	tokenValidity    = 24 * time.Hour

	// bcrypt only reads the first 72 bytes of a password
	maxPasswordBytes = 72
)

// Claims carries the registered claims plus the authenticated user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"id"`
}

type AuthService struct {
	store     Store
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(store Store, jwtSecret string) *AuthService {
	return &AuthService{store: store, jwtSecret: []byte(jwtSecret), now: time.Now}
}

// Register hashes the password and stores a new user. Duplicate usernames
// are only rejected if the database has a constraint for them.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrPasswordTooLong, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.store.CreateUser(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// Login checks the credentials and returns a signed session token valid for 24 hours.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(user.Id)
}

func (s *AuthService) issueToken(userID int) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken returns the user id of a valid, unexpired token.
func (s *AuthService) ParseToken(tokenString string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
