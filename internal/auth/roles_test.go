package auth

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

func TestRolePredicates(t *testing.T) {
	buyer := &models.User{ID: primitive.NewObjectID(), Role: RoleBuyer}
	seller := &models.User{ID: primitive.NewObjectID(), Role: RoleSeller}
	admin := &models.User{ID: primitive.NewObjectID(), Role: RoleAdmin}

	if !IsBuyer(buyer) || IsBuyer(seller) || IsBuyer(admin) {
		t.Fatal("IsBuyer must pass buyers only")
	}
	if IsSeller(buyer) || !IsSeller(seller) || !IsSeller(admin) {
		t.Fatal("IsSeller must pass sellers and admins")
	}
	if IsAdmin(buyer) || IsAdmin(seller) || !IsAdmin(admin) {
		t.Fatal("IsAdmin must pass admins only")
	}
}

func TestRolePredicatesNilUser(t *testing.T) {
	if IsBuyer(nil) || IsSeller(nil) || IsAdmin(nil) {
		t.Fatal("nil user must fail every role check")
	}
	if IsOwnerOrAdmin(primitive.NewObjectID(), nil) {
		t.Fatal("nil user must fail ownership check")
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owner := &models.User{ID: ownerID, Role: RoleSeller}
	other := &models.User{ID: primitive.NewObjectID(), Role: RoleSeller}
	admin := &models.User{ID: primitive.NewObjectID(), Role: RoleAdmin}

	if !IsOwnerOrAdmin(ownerID, owner) {
		t.Fatal("owner must pass")
	}
	if IsOwnerOrAdmin(ownerID, other) {
		t.Fatal("non-owner seller must fail")
	}
	if !IsOwnerOrAdmin(ownerID, admin) {
		t.Fatal("admin must pass regardless of ownership")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleBuyer, RoleSeller, RoleAdmin} {
		if !IsValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if IsValidRole("superadmin") || IsValidRole("") {
		t.Fatal("unknown roles must be rejected")
	}
}
