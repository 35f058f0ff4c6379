package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// IdentityService maintains the user directory. Records are provisioned
// and updated by the identity provider's webhooks, not by end users.
type IdentityService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewIdentityService(db *sql.DB, rm repomanager.RepositoryManager) *IdentityService {
	return &IdentityService{db: db, rm: rm}
}

// CreateUserParams carries the provisioning payload for a new user.
type CreateUserParams struct {
	TokenIdentifier string
	Name            string
	Image           string
	Role            models.Role
	OrgUnitID       *string
}

func (p CreateUserParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TokenIdentifier, validation.Required),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Role, validation.Required, validation.In(models.RoleAdmin, models.RoleMember)),
	)
}

// CreateUser registers a user under their identity-provider token.
func (s *IdentityService) CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err)
	}

	user := &models.User{
		TokenIdentifier: p.TokenIdentifier,
		Name:            p.Name,
		Image:           p.Image,
		Role:            p.Role,
		OrgUnitID:       p.OrgUnitID,
	}
	return s.rm.Users(s.db).Create(ctx, user)
}

// UpdateUser refreshes the profile attributes of an existing user,
// matched by their identity-provider token.
func (s *IdentityService) UpdateUser(ctx context.Context, token, name, image string) error {
	if err := validation.Validate(token, validation.Required); err != nil {
		return fmt.Errorf("%w: token_identifier: %s", common.ErrorValidation, err)
	}
	err := s.rm.Users(s.db).UpdateProfile(ctx, token, name, image)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound
	}
	return err
}

// GetProfile returns the display attributes of a user by id. A missing
// user yields an empty profile: listings render unattributed rows
// instead of failing wholesale.
func (s *IdentityService) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	user, err := s.rm.Users(s.db).GetByID(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{Name: user.Name, Image: user.Image}, nil
}

// Me returns the caller's own record, or nil when the request carried no
// identity.
func (s *IdentityService) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.rm.Users(s.db).GetByToken(ctx, token)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
