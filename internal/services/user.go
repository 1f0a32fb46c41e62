package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"enrolinvitation/internal/domain"
)

type accessTokenService struct {
	userRepo    domain.UserRepository
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAccessTokenService creates an AccessTokenService that signs tokens for users found in userRepo.
func NewAccessTokenService(userRepo domain.UserRepository, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AccessTokenService {
	return &accessTokenService{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *accessTokenService) IssueToken(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
