package service

import (
	"context"
	"fmt"
	"time"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
)

// AuthService exchanges credentials for bearer tokens and revokes them on
// logout.
type AuthService interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
	RevokeToken(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userService UserService
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userService UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userService: userService,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// IssueToken authenticates the credentials and returns a fresh signed token.
// Missing and wrong credentials produce the same error.
func (s *authService) IssueToken(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperrors.ErrInvalidCredentials
	}

	user, err := s.userService.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// RevokeToken marks the token's JTI as revoked for its remaining lifetime.
func (s *authService) RevokeToken(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
