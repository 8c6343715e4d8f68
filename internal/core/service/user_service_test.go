package service

import (
	"context"
	"strings"
	"testing"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

func newUserFixture() (*UserService, *stubUserRepo, *stubTaskRepo) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	svc := NewUserService(users, tasks, stubHasher{}, "password", discardLogger)
	return svc, users, tasks
}

func TestUserService_Create_HierarchyRules(t *testing.T) {
	svc, users, _ := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	manager := users.mustAdd(&domain.User{Username: "mgr", Role: domain.RoleManager})
	plain := users.mustAdd(&domain.User{Username: "joe", Role: domain.RoleUser, ManagerID: manager.ID})

	cases := []struct {
		name    string
		creator *domain.User
		role    domain.Role
		wantErr error
	}{
		{"admin creates manager", admin, domain.RoleManager, nil},
		{"admin creates user", admin, domain.RoleUser, nil},
		{"admin creates admin", admin, domain.RoleAdmin, domain.ErrPermissionDenied},
		{"manager creates user", manager, domain.RoleUser, nil},
		{"manager creates manager", manager, domain.RoleManager, domain.ErrPermissionDenied},
		{"user creates user", plain, domain.RoleUser, domain.ErrPermissionDenied},
		{"unknown role", admin, domain.Role("superuser"), domain.ErrInvalidRole},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
				Username: strings.ReplaceAll(tc.name, " ", "_") + "_" + string(rune('a'+i)),
				Password: "secret",
				Role:     tc.role,
			}, tc.creator)
			if err != tc.wantErr {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	svc, users, _ := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	users.mustAdd(&domain.User{Username: "taken", Role: domain.RoleUser})

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "taken",
		Password: "secret",
		Role:     domain.RoleUser,
	}, admin)
	if err != domain.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUserService_Create_ManagerOwnsNewReports(t *testing.T) {
	svc, users, _ := newUserFixture()
	manager := users.mustAdd(&domain.User{Username: "mgr", Role: domain.RoleManager})

	created, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username:  "newbie",
		Password:  "secret",
		Role:      domain.RoleUser,
		ManagerID: "someone-else",
	}, manager)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.ManagerID != manager.ID {
		t.Fatalf("manager-created accounts must report to the creator, got %q", created.ManagerID)
	}
	if created.PasswordHash != "hashed:secret" {
		t.Fatalf("password was not hashed before persisting: %q", created.PasswordHash)
	}
}

func TestUserService_Create_AdminSuppliedManager(t *testing.T) {
	svc, users, _ := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	manager := users.mustAdd(&domain.User{Username: "mgr", Role: domain.RoleManager})
	plain := users.mustAdd(&domain.User{Username: "joe", Role: domain.RoleUser})

	created, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username:  "placed",
		Password:  "secret",
		Role:      domain.RoleUser,
		ManagerID: manager.ID,
	}, admin)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.ManagerID != manager.ID {
		t.Fatalf("expected manager %q, got %q", manager.ID, created.ManagerID)
	}

	// A plain user cannot be named as someone's manager.
	_, err = svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username:  "misplaced",
		Password:  "secret",
		Role:      domain.RoleUser,
		ManagerID: plain.ID,
	}, admin)
	if err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	_, err = svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username:  "dangling",
		Password:  "secret",
		Role:      domain.RoleUser,
		ManagerID: "missing",
	}, admin)
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PartialAndScoped(t *testing.T) {
	svc, users, _ := newUserFixture()
	m1 := users.mustAdd(&domain.User{Username: "m1", Role: domain.RoleManager})
	m2 := users.mustAdd(&domain.User{Username: "m2", Role: domain.RoleManager})
	report := users.mustAdd(&domain.User{
		Username:     "rep",
		Role:         domain.RoleUser,
		ManagerID:    m1.ID,
		Email:        "old@example.com",
		PasswordHash: "hashed:old",
	})

	// A foreign manager cannot touch the account.
	if _, err := svc.UpdateUser(context.Background(), report.ID, ports.UpdateUserInput{Email: "x@example.com"}, m2); err != domain.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// Email-only update leaves the credential alone.
	updated, err := svc.UpdateUser(context.Background(), report.ID, ports.UpdateUserInput{Email: "new@example.com"}, m1)
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Email != "new@example.com" || updated.PasswordHash != "hashed:old" {
		t.Fatalf("partial update corrupted the record: %+v", updated)
	}

	// Password-only update re-hashes and keeps the new email.
	updated, err = svc.UpdateUser(context.Background(), report.ID, ports.UpdateUserInput{Password: "fresh"}, m1)
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.PasswordHash != "hashed:fresh" || updated.Email != "new@example.com" {
		t.Fatalf("password update corrupted the record: %+v", updated)
	}

	if _, err := svc.UpdateUser(context.Background(), "missing", ports.UpdateUserInput{Email: "x@example.com"}, m1); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ListManagedUsers(t *testing.T) {
	svc, users, _ := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	manager := users.mustAdd(&domain.User{Username: "mgr", Role: domain.RoleManager})
	report := users.mustAdd(&domain.User{Username: "rep", Role: domain.RoleUser, ManagerID: manager.ID})
	users.mustAdd(&domain.User{Username: "loner", Role: domain.RoleUser})

	all, err := svc.ListManagedUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListManagedUsers returned error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("admin should see all 4 accounts, got %d", len(all))
	}

	scoped, err := svc.ListManagedUsers(context.Background(), manager)
	if err != nil {
		t.Fatalf("ListManagedUsers returned error: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != report.ID {
		t.Fatalf("manager should see exactly their report, got %+v", scoped)
	}

	none, err := svc.ListManagedUsers(context.Background(), report)
	if err != nil {
		t.Fatalf("ListManagedUsers returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("plain users manage nobody, got %d", len(none))
	}
}

func TestUserService_Delete_BlockedByAssignedTasks(t *testing.T) {
	svc, users, tasks := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	target := users.mustAdd(&domain.User{Username: "busy", Role: domain.RoleUser})
	_, _ = tasks.Save(context.Background(), &domain.Task{
		Title:          "Open work",
		Status:         domain.StatusPending,
		AssignedUserID: target.ID,
		CreateUserID:   target.ID,
	})

	err := svc.DeleteUser(context.Background(), target.ID, admin)
	if err != domain.ErrUserHasAssignedTasks {
		t.Fatalf("expected ErrUserHasAssignedTasks, got %v", err)
	}

	// A refused deletion leaves everything untouched.
	if _, ok := users.users[target.ID]; !ok {
		t.Fatalf("target must still exist after refusal")
	}
	for _, task := range tasks.tasks {
		if task.CreateUserID != target.ID {
			t.Fatalf("refused deletion must not orphan tasks: %+v", task)
		}
	}
}

func TestUserService_Delete_Cascade(t *testing.T) {
	svc, users, tasks := newUserFixture()
	admin := users.mustAdd(&domain.User{Username: "root", Role: domain.RoleAdmin})
	manager := users.mustAdd(&domain.User{Username: "mgr", Role: domain.RoleManager})
	r1 := users.mustAdd(&domain.User{Username: "r1", Role: domain.RoleUser, ManagerID: manager.ID})
	r2 := users.mustAdd(&domain.User{Username: "r2", Role: domain.RoleUser, ManagerID: manager.ID})

	// The manager created a task assigned to someone else, so deletion is
	// not blocked but the task survives orphaned.
	saved, _ := tasks.Save(context.Background(), &domain.Task{
		Title:          "Handed off",
		Status:         domain.StatusPending,
		CreateUserID:   manager.ID,
		CreateUsername: "mgr",
		AssignedUserID: r1.ID,
	})

	if err := svc.DeleteUser(context.Background(), manager.ID, admin); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}

	if _, ok := users.users[manager.ID]; ok {
		t.Fatalf("manager record should be gone")
	}
	for _, id := range []string{r1.ID, r2.ID} {
		if users.users[id].ManagerID != "" {
			t.Fatalf("report %s still references the deleted manager", id)
		}
	}
	orphan := tasks.tasks[saved.ID]
	if orphan == nil {
		t.Fatalf("created task should survive the deletion")
	}
	if orphan.CreateUserID != "" || orphan.CreateUsername != "" {
		t.Fatalf("task still references the deleted creator: %+v", orphan)
	}
	if orphan.AssignedUserID != r1.ID {
		t.Fatalf("assignment must be untouched, got %q", orphan.AssignedUserID)
	}
}

func TestUserService_Delete_Permissions(t *testing.T) {
	svc, users, _ := newUserFixture()
	m1 := users.mustAdd(&domain.User{Username: "m1", Role: domain.RoleManager})
	m2 := users.mustAdd(&domain.User{Username: "m2", Role: domain.RoleManager})
	foreign := users.mustAdd(&domain.User{Username: "rep", Role: domain.RoleUser, ManagerID: m2.ID})

	if err := svc.DeleteUser(context.Background(), foreign.ID, m1); err != domain.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), foreign.ID, m2); err != nil {
		t.Fatalf("own-report deletion failed: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), "missing", m2); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_EnsureDefaultAccounts(t *testing.T) {
	svc, users, _ := newUserFixture()

	if err := svc.EnsureDefaultAccounts(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAccounts returned error: %v", err)
	}
	if len(users.users) != 3 {
		t.Fatalf("expected 3 seeded accounts, got %d", len(users.users))
	}

	for username, role := range map[string]domain.Role{
		"admin":   domain.RoleAdmin,
		"manager": domain.RoleManager,
		"user":    domain.RoleUser,
	} {
		u, err := users.FindByUsername(context.Background(), username)
		if err != nil {
			t.Fatalf("seed %q missing: %v", username, err)
		}
		if u.Role != role {
			t.Fatalf("seed %q has role %s, want %s", username, u.Role, role)
		}
		if u.PasswordHash != "hashed:password" {
			t.Fatalf("seed %q credential not hashed: %q", username, u.PasswordHash)
		}
	}

	// Second run is a no-op, even with one account removed in between the
	// others keep their state.
	admin, _ := users.FindByUsername(context.Background(), "admin")
	_ = users.DeleteByID(context.Background(), admin.ID)
	if err := svc.EnsureDefaultAccounts(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAccounts returned error: %v", err)
	}
	if len(users.users) != 3 {
		t.Fatalf("reseed should restore exactly the missing account, got %d", len(users.users))
	}
}
