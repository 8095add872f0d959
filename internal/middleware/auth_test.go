package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshit18-tiwari/MarketPlace/internal/auth"
	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

func runGate(t *testing.T, role string, gate gin.HandlerFunc) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if role != "" {
		c.Set(userContextKey, &models.User{ID: primitive.NewObjectID(), Role: role})
	}

	gate(c)
	return c, w
}

func TestRequireRoleBuyer(t *testing.T) {
	gate := RequireRole(auth.RoleBuyer)

	if c, _ := runGate(t, auth.RoleBuyer, gate); c.IsAborted() {
		t.Fatal("buyer must pass the buyer gate")
	}
	for _, role := range []string{auth.RoleSeller, auth.RoleAdmin} {
		c, w := runGate(t, role, gate)
		if !c.IsAborted() || w.Code != http.StatusForbidden {
			t.Fatalf("role %q must get 403 from the buyer gate, got %d", role, w.Code)
		}
	}
}

func TestRequireRoleSellerAdmitsAdmin(t *testing.T) {
	gate := RequireRole(auth.RoleSeller)

	for _, role := range []string{auth.RoleSeller, auth.RoleAdmin} {
		if c, _ := runGate(t, role, gate); c.IsAborted() {
			t.Fatalf("role %q must pass the seller gate", role)
		}
	}
	if c, w := runGate(t, auth.RoleBuyer, gate); !c.IsAborted() || w.Code != http.StatusForbidden {
		t.Fatalf("buyer must get 403 from the seller gate, got %d", w.Code)
	}
}

func TestRequireRoleAdmin(t *testing.T) {
	gate := RequireRole(auth.RoleAdmin)

	if c, _ := runGate(t, auth.RoleAdmin, gate); c.IsAborted() {
		t.Fatal("admin must pass the admin gate")
	}
	for _, role := range []string{auth.RoleBuyer, auth.RoleSeller} {
		if c, w := runGate(t, role, gate); !c.IsAborted() || w.Code != http.StatusForbidden {
			t.Fatalf("role %q must get 403 from the admin gate, got %d", role, w.Code)
		}
	}
}

func TestRequireRoleNoUserInContext(t *testing.T) {
	c, w := runGate(t, "", RequireRole(auth.RoleBuyer))
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("missing user must get 401, got %d", w.Code)
	}
}
