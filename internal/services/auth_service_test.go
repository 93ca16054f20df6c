package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/langchain-flow/engine/internal/auth"
	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour, 7*24*time.Hour)
}

func TestRegisterIssuesTokens(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		// The hash must never be the raw password.
		return u.Username == "ada" && u.PasswordHash != "hunter2hunter2"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = uuid.New()
	}).Return(nil)

	svc := NewAuthService(userRepo, testTokenManager())
	user, pair, err := svc.Register(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("Create", mock.Anything, mock.Anything).
		Return(appErr.New(appErr.CodeConflict, "entity already exists"))

	svc := NewAuthService(userRepo, testTokenManager())
	_, _, err := svc.Register(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
	require.Contains(t, err.(*appErr.AppError).Message, "already exists")
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	hash, err := auth.HashPassword("the-right-password")
	require.NoError(t, err)

	userRepo := new(mockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "ada", mock.Anything).
		Return(nil, &models.User{ID: uuid.New(), Username: "ada", PasswordHash: hash})
	userRepo.On("GetByUsername", mock.Anything, "nobody", mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "user not found"), nil)

	svc := NewAuthService(userRepo, testTokenManager())

	_, _, wrongPass := svc.Login(context.Background(), "ada", "the-wrong-password")
	_, _, noUser := svc.Login(context.Background(), "nobody", "whatever-password")

	require.Error(t, wrongPass)
	require.Error(t, noUser)
	require.Equal(t, wrongPass.Error(), noUser.Error())
	require.True(t, appErr.IsCode(wrongPass, appErr.CodeUnauthorized))
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("the-right-password")
	require.NoError(t, err)
	userID := uuid.New()

	userRepo := new(mockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "ada", mock.Anything).
		Return(nil, &models.User{ID: userID, Username: "ada", PasswordHash: hash})

	svc := NewAuthService(userRepo, testTokenManager())
	user, pair, err := svc.Login(context.Background(), "ada", "the-right-password")
	require.NoError(t, err)
	require.Equal(t, userID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
}

func TestRefreshReissuesWithoutUserLookup(t *testing.T) {
	tm := testTokenManager()
	userID := uuid.New()
	pair, err := tm.GeneratePair(userID, "ada")
	require.NoError(t, err)

	userRepo := new(mockUserRepo)
	svc := NewAuthService(userRepo, tm)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)

	claims, err := tm.Verify(fresh.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.UserID)

	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), testTokenManager())
	_, err := svc.Refresh(context.Background(), "garbage-token")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}
