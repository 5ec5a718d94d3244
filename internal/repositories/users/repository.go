package users

import (
	"context"

	"github.com/dmitrijs2005/gradebook/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePasswordHash(ctx context.Context, login string, hash string) error
	Delete(ctx context.Context, login string) error
	Count(ctx context.Context) (int, error)
}
