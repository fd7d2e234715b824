package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/validation"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// UserCreateInput carries fields for a new account.
type UserCreateInput struct {
	Username string
	Password string
	Role     domain.Role
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Role     *domain.Role
	Password *string
}

// UserPage is a paginated slice of users.
type UserPage struct {
	Users []domain.User
	Total int64
	Page  int
	Size  int
}

// AccountService coordinates login and user CRUD flows.
type AccountService struct {
	users      repository.UserRepository
	bids       repository.BidRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	policy     validation.PasswordPolicy
	bcryptCost int
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	UserRepo       repository.UserRepository
	BidRepo        repository.BidRepository
	Dispatcher     events.Dispatcher
	PasswordPolicy validation.PasswordPolicy
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	policy := deps.PasswordPolicy
	if policy == nil {
		policy = validation.NewDefaultPasswordPolicy()
	}
	return &AccountService{
		users:      deps.UserRepo,
		bids:       deps.BidRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		policy:     policy,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return "", time.Time{}, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, err
	}

	s.publish(ctx, events.EventLoginSucceeded, user.ID, user,
		events.LoginSucceededPayload{Username: user.Username})
	return token, exp, nil
}

// CreateUser registers a new account on behalf of a privileged caller.
func (s *AccountService) CreateUser(ctx context.Context, principal *domain.User, in UserCreateInput) (*domain.User, error) {
	if !auth.Allowed(principal.Role, auth.OpCreateUser, false) {
		return nil, apperrors.NewForbidden("only staff and admin can create new users")
	}

	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(in.Role)})
	}
	if err := s.policy.Validate(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.NewConflict("username already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, user.ID, principal,
		events.UserCreatedPayload{Username: user.Username, Role: user.Role})
	return user, nil
}

// GetUser loads a single account. Existence is checked before permission,
// so a missing id answers not-found even to callers who could not see it.
func (s *AccountService) GetUser(ctx context.Context, principal *domain.User, id string) (*domain.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(principal.Role, auth.OpGetUser, principal.ID == user.ID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return user, nil
}

// ListUsers returns a page of accounts for privileged callers. Everyone
// else receives a well-formed single-element page holding their own record;
// the call never fails on role grounds.
func (s *AccountService) ListUsers(ctx context.Context, principal *domain.User, page, size int) (*UserPage, error) {
	if !auth.Privileged(principal.Role) {
		return &UserPage{Users: []domain.User{*principal}, Total: 1, Page: 1, Size: 1}, nil
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	users, err := s.users.List(ctx, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Page: page, Size: size}, nil
}

// UpdateUser applies a partial update of role and password. Absent fields
// are untouched.
func (s *AccountService) UpdateUser(ctx context.Context, principal *domain.User, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(principal.Role, auth.OpUpdateUser, principal.ID == user.ID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(*patch.Role)})
		}
		user.Role = *patch.Role
	}
	if patch.Password != nil {
		if err := s.policy.Validate(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, principal, events.UserUpdatedPayload{
		RoleChanged:     patch.Role != nil,
		PasswordChanged: patch.Password != nil,
	})
	return user, nil
}

// DeleteUser removes an account. Bids owned by the account are removed by
// the schema's cascade.
func (s *AccountService) DeleteUser(ctx context.Context, principal *domain.User, id string) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}
	if !auth.Allowed(principal.Role, auth.OpDeleteUser, principal.ID == user.ID) {
		return apperrors.NewForbidden("only staff and admin can delete users")
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, user.ID, principal,
		events.UserDeletedPayload{Username: user.Username})
	return nil
}

// ListBids returns the bids owned by a user, under the same visibility rule
// as GetUser.
func (s *AccountService) ListBids(ctx context.Context, principal *domain.User, userID string) ([]domain.Bid, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(principal.Role, auth.OpListBids, principal.ID == user.ID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.bids.ListByUser(ctx, user.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) loadUser(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("user", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, subjectID string, actor *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
