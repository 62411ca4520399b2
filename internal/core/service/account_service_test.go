package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
)

func newAccountSvc(repo *stubUserRepo, store *stubSessionStore, rec *stubRecorder) *AccountService {
	return NewAccountService(repo, store, rec, zerolog.Nop())
}

func TestAccountService_CreateUser_AdminFlags(t *testing.T) {
	svc := newAccountSvc(newStubUserRepo(), newStubSessionStore(), &stubRecorder{})

	admin, err := svc.CreateUser(context.Background(), registerInput("root@example.com", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !admin.IsStaff || !admin.IsSuperuser {
		t.Fatalf("expected admin to be staff and superuser: %+v", admin)
	}
	if admin.CustomerProfile != nil || admin.SalonOwnerProfile != nil {
		t.Fatalf("admin must not own a profile")
	}

	owner, err := svc.CreateUser(context.Background(), registerInput("own@example.com", domain.RoleSalonOwner))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if owner.IsStaff || owner.IsSuperuser || owner.SalonOwnerProfile == nil {
		t.Fatalf("unexpected salon owner: %+v", owner)
	}
}

func TestAccountService_CreateUser_InvalidRole(t *testing.T) {
	svc := newAccountSvc(newStubUserRepo(), newStubSessionStore(), nil)

	if _, err := svc.CreateUser(context.Background(), registerInput("x@example.com", domain.RoleNone)); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAccountService_ToggleActive_RevokesSessions(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	rec := &stubRecorder{}
	svc := newAccountSvc(repo, store, rec)
	ctx := context.Background()

	user, _ := svc.CreateUser(ctx, registerInput("cust@example.com", domain.RoleCustomer))
	_ = store.Create(ctx, &domain.Session{ID: "s1", UserID: user.ID})
	_ = store.Create(ctx, &domain.Session{ID: "s2", UserID: user.ID})
	_ = store.Create(ctx, &domain.Session{ID: "s3", UserID: "someone-else"})

	toggled, err := svc.ToggleActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("expected user deactivated")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected only the other user's session to remain, got %d", len(store.sessions))
	}

	again, err := svc.ToggleActive(ctx, user.ID)
	if err != nil || !again.IsActive {
		t.Fatalf("expected user re-activated, got %+v err=%v", again, err)
	}
	if len(rec.kinds()) != 2 {
		t.Fatalf("expected two status events, got %v", rec.kinds())
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAccountSvc(repo, newStubSessionStore(), nil)
	ctx := context.Background()

	_, _ = svc.CreateUser(ctx, registerInput("taken@example.com", domain.RoleCustomer))
	owner, _ := svc.CreateUser(ctx, registerInput("owner@example.com", domain.RoleSalonOwner))

	if _, err := svc.UpdateProfile(ctx, owner.ID, ports.ProfileUpdate{Email: "taken@example.com"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	license := "LIC-42"
	years := 7
	updated, err := svc.UpdateProfile(ctx, owner.ID, ports.ProfileUpdate{
		FirstName:         "Olga",
		LastName:          "Owner",
		Email:             "owner@example.com",
		BusinessLicense:   &license,
		YearsOfExperience: &years,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != "Olga" || updated.SalonOwnerProfile.BusinessLicense != "LIC-42" || updated.SalonOwnerProfile.YearsOfExperience != 7 {
		t.Fatalf("unexpected profile: %+v", updated.SalonOwnerProfile)
	}
	if updated.Role != domain.RoleSalonOwner {
		t.Fatalf("role must not change on profile update")
	}
}

func TestAccountService_BootstrapAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAccountSvc(repo, newStubSessionStore(), nil)
	ctx := context.Background()

	in := ports.RegisterInput{Email: "admin@bookmystyle.com", Password: "admin123", FirstName: "Admin", LastName: "User"}
	first, created, err := svc.BootstrapAdmin(ctx, in)
	if err != nil || !created {
		t.Fatalf("expected admin created, got created=%v err=%v", created, err)
	}
	if first.Role != domain.RoleAdmin || !first.IsStaff || first.IsSuperuser || !first.IsActive {
		t.Fatalf("unexpected bootstrap admin: %+v", first)
	}

	second, created, err := svc.BootstrapAdmin(ctx, in)
	if err != nil || created {
		t.Fatalf("expected existing admin, got created=%v err=%v", created, err)
	}
	if second.ID != first.ID || len(repo.users) != 1 {
		t.Fatalf("expected a single admin, got %d users", len(repo.users))
	}
}

func TestAccountService_ListAdmins_UnionWithoutDuplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAccountSvc(repo, newStubSessionStore(), nil)
	ctx := context.Background()

	_, _ = svc.CreateUser(ctx, registerInput("a1@example.com", domain.RoleAdmin))
	_, _, _ = svc.BootstrapAdmin(ctx, registerInput("a2@example.com", domain.RoleAdmin))
	_, _ = svc.CreateUser(ctx, registerInput("c@example.com", domain.RoleCustomer))
	su, _ := svc.CreateUser(ctx, registerInput("su@example.com", domain.RoleCustomer))
	repo.users[su.ID].IsSuperuser = true

	admins, err := svc.ListAdmins(ctx)
	if err != nil {
		t.Fatalf("ListAdmins failed: %v", err)
	}
	if len(admins) != 3 {
		t.Fatalf("expected 3 admins, got %d", len(admins))
	}
}
