package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/dartz_league/internal/authz"
	"github.com/Skotchmaster/dartz_league/internal/events"
	"github.com/Skotchmaster/dartz_league/internal/hash"
	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/models"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/search"
	"github.com/Skotchmaster/dartz_league/internal/transport"
	"github.com/Skotchmaster/dartz_league/internal/validator"
)

var (
	ErrForbidden     = errors.New("insufficient permissions")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type PlayerIndexer interface {
	Index(ctx context.Context, doc search.PlayerDoc) error
}

type AccountService struct {
	Repo    *repo.GormRepo
	Roles   authz.Hierarchy
	Events  events.Publisher
	Players PlayerIndexer
}

func missing(fields map[string]string) error {
	var names []string
	for _, name := range []string{"firstName", "lastName", "address1", "city", "state", "zip"} {
		if strings.TrimSpace(fields[name]) == "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return fmt.Errorf("%w: missing %s", validator.ErrValidation, strings.Join(names, ", "))
	}
	return nil
}

// Signup stores a new User with its player profile. It does not log the
// user in.
func (s *AccountService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.signup")

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.ValidateSignup(req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}
	if err := missing(map[string]string{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"address1":  req.Address1,
		"city":      req.City,
		"state":     req.State,
		"zip":       req.Zip,
	}); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         authz.RoleUser,
	}
	profile := &models.PlayerProfile{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		MobileNumber:    req.MobileNumber,
		Address1:        req.Address1,
		Address2:        req.Address2,
		City:            req.City,
		State:           req.State,
		Zip:             req.Zip,
		BsLiveCode:      req.BsLiveCode,
		DefaultLocation: req.Location,
	}
	if err := s.Repo.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}

	events.PublishUser(ctx, s.Events, events.TypeUserSignedUp, user.ID, user.Username)
	if s.Players != nil {
		if err := s.Players.Index(ctx, search.DocFromProfile(profile)); err != nil {
			l.Error("index_player_failed", "user_id", user.ID, "error", err)
		}
	}

	l.Info("signup_success", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: missing current or new password", validator.ErrValidation)
	}
	if err := validator.ValidatePassword(next); err != nil {
		return err
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, current) {
		return ErrWrongPassword
	}

	pwHash, err := hash.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, pwHash)
}

func (s *AccountService) MyAccount(ctx context.Context, userID uint) (*models.PlayerProfile, error) {
	return s.Repo.GetProfileByUserID(ctx, userID)
}

func (s *AccountService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

// UpdateRole lets actor grant a role no higher than its own, to a user who
// does not already outrank it.
func (s *AccountService) UpdateRole(ctx context.Context, actor identity.Identity, targetID uint, role string) (*models.User, error) {
	if !s.Roles.Known(role) {
		return nil, fmt.Errorf("%w: unknown role %q", validator.ErrValidation, role)
	}

	ok, err := s.Roles.HasRequiredRole(actor, role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	target, err := s.Repo.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	ok, err = s.Roles.HasRequiredRole(actor, target.Role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	if err := s.Repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	target.Role = role

	logging.FromContext(ctx).Info("role_updated", "actor_id", actor.ID, "user_id", targetID, "role", role)
	return target, nil
}
