package service

import (
	"context"
	"errors"
	"testing"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

func TestProfileService_Update(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u-1", Name: "Ana", Role: domain.RoleCustomer, IsActive: true})
	svc := NewProfileService(users, discardLogger)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u-1", domain.ProfileUpdate{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty update: expected validation error, got %v", err)
	}
	blank := "   "
	if _, err := svc.Update(ctx, "u-1", domain.ProfileUpdate{Name: &blank}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name: expected validation error, got %v", err)
	}

	name, city := " Ana Lopez ", "Bristol"
	got, err := svc.Update(ctx, "u-1", domain.ProfileUpdate{Name: &name, Location: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Ana Lopez" || got.Location != "Bristol" {
		t.Errorf("unexpected profile %+v", got)
	}

	if _, err := svc.Update(ctx, "ghost", domain.ProfileUpdate{Location: &city}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
}

func TestProfileService_Deactivate(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u-1", Role: domain.RoleCustomer, IsActive: true})
	svc := NewProfileService(users, discardLogger)

	if err := svc.Deactivate(context.Background(), "u-1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if users.byID["u-1"].IsActive {
		t.Error("account still active")
	}
	if err := svc.Deactivate(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
}

func TestProfileService_GetProvider(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "p-1", Name: "Pat", Role: domain.RoleProvider, IsActive: true, Rating: 4.5})
	users.add(&domain.User{ID: "p-2", Role: domain.RoleProvider, IsActive: false})
	users.add(&domain.User{ID: "c-1", Role: domain.RoleCustomer, IsActive: true})
	svc := NewProfileService(users, discardLogger)
	ctx := context.Background()

	profile, err := svc.GetProvider(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetProvider: %v", err)
	}
	if profile.Name != "Pat" || profile.Rating != 4.5 {
		t.Errorf("unexpected profile %+v", profile)
	}

	for _, id := range []string{"p-2", "c-1", "ghost"} {
		if _, err := svc.GetProvider(ctx, id); !errors.Is(err, domain.ErrProviderNotFound) {
			t.Errorf("%s: expected ErrProviderNotFound, got %v", id, err)
		}
	}
}
