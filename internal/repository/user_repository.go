package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByUsername(ctx context.Context, username string, dest *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by username failed")
	}
	return nil
}
