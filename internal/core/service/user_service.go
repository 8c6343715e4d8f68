package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// Well-known seed accounts created at first startup.
const (
	seedAdminUsername   = "admin"
	seedManagerUsername = "manager"
	seedUserUsername    = "user"
)

type UserService struct {
	users        ports.UserRepository
	tasks        ports.TaskRepository
	hasher       ports.CredentialHasher
	seedPassword string
	logger       zerolog.Logger
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, hasher ports.CredentialHasher, seedPassword string, logger zerolog.Logger) *UserService {
	return &UserService{
		users:        users,
		tasks:        tasks,
		hasher:       hasher,
		seedPassword: seedPassword,
		logger:       logger,
	}
}

// CreateUser creates an account on behalf of creator, enforcing the
// hierarchy rules: users create nobody, managers create only plain users
// (who become their reports), admins create users and managers but never
// admins. The plaintext credential is hashed before anything is persisted.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput, creator *domain.User) (*domain.User, error) {
	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	if !domain.CanCreateUser(creator, input.Role) {
		s.logger.Warn().
			Str("creator_id", creator.ID).
			Str("creator_role", string(creator.Role)).
			Str("new_role", string(input.Role)).
			Msg("user creation denied")
		return nil, domain.ErrPermissionDenied
	}

	var managerID string
	switch creator.Role {
	case domain.RoleManager:
		// Managers always own the accounts they create.
		managerID = creator.ID
	case domain.RoleAdmin:
		if input.ManagerID != "" {
			manager, err := s.users.FindByID(ctx, input.ManagerID)
			if err != nil {
				return nil, err
			}
			if manager.Role == domain.RoleUser {
				return nil, domain.ErrInvalidRole
			}
			managerID = manager.ID
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		ManagerID:    managerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Str("creator_id", creator.ID).
		Msg("user created")
	return created, nil
}

// UpdateUser applies the non-empty fields of input to an existing account.
// Username, role and manager are immutable through this path; a supplied
// password is re-hashed. Managers may only touch their own reports.
func (s *UserService) UpdateUser(ctx context.Context, id string, input ports.UpdateUserInput, modifier *domain.User) (*domain.User, error) {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanModifyUser(modifier, existing) {
		return nil, domain.ErrPermissionDenied
	}

	if input.Email != "" {
		existing.Email = input.Email
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Save(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("modifier_id", modifier.ID).Msg("user updated")
	return updated, nil
}

// ListManagedUsers returns every account for admins, the viewer's direct
// reports for managers and nothing for plain users.
func (s *UserService) ListManagedUsers(ctx context.Context, viewer *domain.User) ([]*domain.User, error) {
	switch viewer.Role {
	case domain.RoleAdmin:
		return s.users.FindAll(ctx)
	case domain.RoleManager:
		return s.users.FindByManager(ctx, viewer.ID)
	case domain.RoleUser:
		return []*domain.User{}, nil
	}
	return []*domain.User{}, nil
}

// DeleteUser removes an account and repairs the references pointing at it.
// Deletion is refused outright while any task is still assigned to the
// target. The cascade steps are each idempotent bulk updates, so re-running
// an interrupted deletion converges to the same end state:
//
//  1. clear the manager reference on every report,
//  2. clear the creator reference on every task the target created,
//  3. delete the record itself.
func (s *UserService) DeleteUser(ctx context.Context, id string, modifier *domain.User) error {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanDeleteUser(modifier, target) {
		s.logger.Warn().
			Str("target_id", id).
			Str("modifier_id", modifier.ID).
			Msg("user deletion denied")
		return domain.ErrPermissionDenied
	}

	assigned, err := s.tasks.FindByAssignee(ctx, target.ID)
	if err != nil {
		return err
	}
	if len(assigned) > 0 {
		return domain.ErrUserHasAssignedTasks
	}

	unlinked, err := s.users.ClearManager(ctx, target.ID)
	if err != nil {
		return err
	}
	orphaned, err := s.tasks.ClearCreator(ctx, target.ID)
	if err != nil {
		return err
	}
	if err := s.users.DeleteByID(ctx, target.ID); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", id).
		Str("modifier_id", modifier.ID).
		Int64("reports_unlinked", unlinked).
		Int64("tasks_orphaned", orphaned).
		Msg("user deleted")
	return nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// EnsureDefaultAccounts seeds the well-known admin, manager and user accounts
// when they do not exist yet. Each account is checked independently, so the
// call is an idempotent no-op on an already-seeded store.
func (s *UserService) EnsureDefaultAccounts(ctx context.Context) error {
	seeds := []struct {
		username string
		role     domain.Role
		email    string
	}{
		{seedAdminUsername, domain.RoleAdmin, "admin@example.com"},
		{seedManagerUsername, domain.RoleManager, "manager@example.com"},
		{seedUserUsername, domain.RoleUser, "user@example.com"},
	}

	for _, seed := range seeds {
		_, err := s.users.FindByUsername(ctx, seed.username)
		if err == nil {
			continue
		}
		if err != domain.ErrUserNotFound {
			return err
		}

		hash, err := s.hasher.Hash(s.seedPassword)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if _, err := s.users.Save(ctx, &domain.User{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
			Role:         seed.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
		s.logger.Info().Str("username", seed.username).Str("role", string(seed.role)).Msg("seeded default account")
	}
	return nil
}
