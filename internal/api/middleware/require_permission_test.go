package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobTrack/internal/auth"
)

func permissionTestRouter(gate gin.HandlerFunc, role auth.Role, withRole bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if withRole {
				c.Set(ContextRoleKey, role)
			}
		},
		gate,
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func doGuardedRequest(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireApplicationReviewer_ForbidsApplicant(t *testing.T) {
	router := permissionTestRouter(RequireApplicationReviewer(), auth.RoleApplicant, true)
	if w := doGuardedRequest(router); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireApplicationReviewer_AllowsAdmin(t *testing.T) {
	router := permissionTestRouter(RequireApplicationReviewer(), auth.RoleAdmin, true)
	if w := doGuardedRequest(router); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireJobManager_ForbidsApplicant(t *testing.T) {
	router := permissionTestRouter(RequireJobManager(), auth.RoleApplicant, true)
	if w := doGuardedRequest(router); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireJobManager_AllowsAdmin(t *testing.T) {
	router := permissionTestRouter(RequireJobManager(), auth.RoleAdmin, true)
	if w := doGuardedRequest(router); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequirePermission_MissingRoleIsUnauthorized(t *testing.T) {
	router := permissionTestRouter(RequireJobManager(), auth.RoleAdmin, false)
	if w := doGuardedRequest(router); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
	}
}
