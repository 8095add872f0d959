package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

func IsBuyer(user *models.User) bool {
	return user != nil && user.Role == RoleBuyer
}

// IsSeller admits admins too: every seller capability is also an admin capability.
func IsSeller(user *models.User) bool {
	return user != nil && (user.Role == RoleSeller || user.Role == RoleAdmin)
}

func IsAdmin(user *models.User) bool {
	return user != nil && user.Role == RoleAdmin
}

// IsOwnerOrAdmin gates resource mutations: the owning user or any admin.
func IsOwnerOrAdmin(resourceOwnerID primitive.ObjectID, user *models.User) bool {
	if user == nil {
		return false
	}
	return user.ID == resourceOwnerID || IsAdmin(user)
}
