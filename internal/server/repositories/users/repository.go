package users

import (
	"context"

	"github.com/wibisana/berkas/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByToken(ctx context.Context, token string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, token, name, image string) error
}
