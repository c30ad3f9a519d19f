package services

import (
	"context"
	"errors"
	"fmt"
	"food_ordering/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomerResolver maps a logged-in identity to a customer id.
type CustomerResolver interface {
	Resolve(ctx context.Context, username string) (uint, error)
	ResolveToken(ctx context.Context, token string) (uint, error)
	IssueToken(username string, ttl time.Duration) (string, error)
}

type customerResolver struct {
	customerRepo repository.CustomerRepository
	jwtSecret    []byte
}

func NewCustomerResolver(customerRepo repository.CustomerRepository, jwtSecret string) CustomerResolver {
	return &customerResolver{customerRepo: customerRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *customerResolver) Resolve(ctx context.Context, username string) (uint, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, fmt.Errorf("resolve customer: %w", ErrUnauthenticated)
	}

	customer, err := s.customerRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, storeError("resolve customer "+username, err)
	}
	return customer.ID, nil
}

func (s *customerResolver) ResolveToken(ctx context.Context, token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("resolve token: %w", ErrUnauthenticated)
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("resolve token: %w: %v", ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, fmt.Errorf("resolve token: %w: missing subject", ErrUnauthenticated)
	}

	id, err := s.Resolve(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		// a token for a customer that no longer exists is not a valid session
		return 0, fmt.Errorf("resolve token: %w: %w", ErrUnauthenticated, err)
	}
	return id, err
}

func (s *customerResolver) IssueToken(username string, ttl time.Duration) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrUnauthenticated
	}
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
