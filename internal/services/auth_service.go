package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/auth"
	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
	appErr "github.com/langchain-flow/engine/pkg/errors"
	"github.com/langchain-flow/engine/pkg/logger"
)

// AuthService handles registration, login and token refresh.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, *auth.TokenPair, error)
	Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

var _ AuthService = (*authService)(nil)

// Register creates the user and issues a token pair. Duplicate usernames or
// emails surface as the unique-constraint conflict from the insert; there is
// no check-then-insert race window.
func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, *auth.TokenPair, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, appErr.Wrap(err, appErr.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, nil, appErr.New(appErr.CodeConflict, "username or email already exists")
		}
		return nil, nil, err
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		return nil, nil, appErr.Wrap(err, appErr.CodeInternal, "failed to issue tokens")
	}
	logger.L().Info("user registered", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	return user, pair, nil
}

// Login verifies credentials. Unknown user and wrong password are the same
// error on purpose.
func (s *authService) Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error) {
	invalid := appErr.New(appErr.CodeUnauthorized, "invalid credentials")

	var user models.User
	if err := s.userRepo.GetByUsername(ctx, username, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, nil, invalid
		}
		return nil, nil, err
	}
	if !auth.ComparePassword(password, user.PasswordHash) {
		return nil, nil, invalid
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		return nil, nil, appErr.Wrap(err, appErr.CodeInternal, "failed to issue tokens")
	}
	logger.L().Info("user logged in", zap.String("user_id", user.ID.String()))
	return &user, pair, nil
}

// Refresh re-issues a pair from a valid refresh token. The claims are
// self-contained, so no user lookup happens here.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, appErr.New(appErr.CodeUnauthorized, "invalid refresh token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, appErr.New(appErr.CodeUnauthorized, "invalid refresh token")
	}
	pair, err := s.tokens.GeneratePair(userID, claims.Username)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "failed to issue tokens")
	}
	return pair, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.userRepo.GetByID(ctx, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
