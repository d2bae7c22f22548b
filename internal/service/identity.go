package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// ProvisionInput carries the identity provider's view of a user.
type ProvisionInput struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

func (in ProvisionInput) validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return invalid("user id is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return invalid("email is required")
	}
	return nil
}

// IdentityService keeps the canonical user records.
type IdentityService struct {
	users *repository.UserRepo
	now   func() time.Time
}

func NewIdentityService(users *repository.UserRepo) *IdentityService {
	return &IdentityService{users: users, now: time.Now}
}

// Provision stores the user unless a user with the same id exists, in
// which case the stored row is returned unchanged. Webhooks deliver at
// least once, so a duplicate insert racing with this one is resolved by
// reading back the winner.
func (s *IdentityService) Provision(ctx context.Context, in ProvisionInput) (model.User, error) {
	if err := in.validate(); err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, in.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, err
	}

	now := s.now().UTC()
	u = model.User{
		ID:        in.ID,
		Email:     strings.TrimSpace(in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		AvatarURL: in.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.users.GetByID(ctx, in.ID)
		}
		return model.User{}, err
	}
	return u, nil
}

// SyncProfile applies a profile change. An unknown user is provisioned
// instead, since the update may overtake the creation event.
func (s *IdentityService) SyncProfile(ctx context.Context, in ProvisionInput) (model.User, error) {
	if err := in.validate(); err != nil {
		return model.User{}, err
	}
	err := s.users.UpdateProfile(ctx, model.User{
		ID:        in.ID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		AvatarURL: in.AvatarURL,
	}, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return s.Provision(ctx, in)
	}
	if err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, in.ID)
}

// GetByID returns the user or ErrNotFound.
func (s *IdentityService) GetByID(ctx context.Context, id string) (model.User, error) {
	if id == "" {
		return model.User{}, invalid("user id is required")
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, notFound("user not found")
	}
	return u, err
}

// requireUser maps a missing user to ErrNotFound naming the role it plays.
func requireUser(ctx context.Context, users *repository.UserRepo, id, role string) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(role + " not found")
	}
	return nil
}
