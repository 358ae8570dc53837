package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todo-api/backend/internal/auth"
	"todo-api/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	verifier := auth.NewVerifier(testSecret)

	scoped := r.Group("/api/:user_id")
	scoped.Use(middleware.RequireAuth(verifier))
	scoped.Use(middleware.RequireSelf())

	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.ContextUserID),
			"email":   c.GetString(middleware.ContextUserEmail),
		})
	}
	scoped.GET("/tasks", handler)
	scoped.POST("/tasks", handler)
	scoped.DELETE("/tasks/:task_id", handler)
	scoped.PATCH("/tasks/:task_id/complete", handler)

	return r
}

func doRequest(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Detail string `json:"detail"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Success {
		t.Error("Expected success=false on error response")
	}
	return body.Error.Detail
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter()

	w := doRequest(r, "GET", "/api/u1/tasks", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	if detail := errorDetail(t, w); detail != "Missing Authorization header" {
		t.Errorf("Unexpected detail: %q", detail)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	r := newAuthRouter()

	cases := []string{
		"Bearer",
		"Bearer a b",
		"Basic dXNlcjpwYXNz",
		"token-without-scheme",
	}
	for _, header := range cases {
		w := doRequest(r, "GET", "/api/u1/tasks", header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, w.Code)
			continue
		}
		if detail := errorDetail(t, w); detail != "Invalid Authorization header format. Expected: Bearer <token>" {
			t.Errorf("Header %q: unexpected detail %q", header, detail)
		}
	}
}

func TestRequireAuth_SchemeCaseInsensitive(t *testing.T) {
	r := newAuthRouter()

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		w := doRequest(r, "GET", "/api/u1/tasks", scheme+" "+tokenFor(t, "u1"))
		if w.Code != http.StatusOK {
			t.Errorf("Scheme %q: expected 200, got %d", scheme, w.Code)
		}
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r := newAuthRouter()

	w := doRequest(r, "GET", "/api/u1/tasks", "Bearer not.a.token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	if detail := errorDetail(t, w); detail != "Invalid or expired token" {
		t.Errorf("Unexpected detail: %q", detail)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	r := newAuthRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := doRequest(r, "GET", "/api/u1/tasks", "Bearer "+signed)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for expired token, got %d", w.Code)
	}
	if detail := errorDetail(t, w); detail != "Invalid or expired token" {
		t.Errorf("Unexpected detail: %q", detail)
	}
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	r := newAuthRouter()

	w := doRequest(r, "GET", "/api/u1/tasks", "Bearer "+tokenFor(t, "u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["user_id"] != "u1" {
		t.Errorf("Expected user_id u1 in context, got %q", body["user_id"])
	}
	if body["email"] != "u1@example.com" {
		t.Errorf("Expected email u1@example.com in context, got %q", body["email"])
	}
}

func TestRequireSelf_PathMismatch(t *testing.T) {
	r := newAuthRouter()

	// Token for u2, path for u1: rejected before any store access,
	// always 403, never 404.
	w := doRequest(r, "GET", "/api/u1/tasks", "Bearer "+tokenFor(t, "u2"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", w.Code)
	}
	if detail := errorDetail(t, w); detail != "Cannot access other users' tasks" {
		t.Errorf("Unexpected detail: %q", detail)
	}
}

func TestRequireSelf_MethodSpecificMessages(t *testing.T) {
	r := newAuthRouter()
	token := "Bearer " + tokenFor(t, "u2")

	cases := []struct {
		method string
		path   string
		detail string
	}{
		{"GET", "/api/u1/tasks", "Cannot access other users' tasks"},
		{"POST", "/api/u1/tasks", "Cannot create tasks for other users"},
		{"PATCH", "/api/u1/tasks/5/complete", "Cannot update other users' tasks"},
		{"DELETE", "/api/u1/tasks/5", "Cannot delete other users' tasks"},
	}
	for _, tc := range cases {
		w := doRequest(r, tc.method, tc.path, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", tc.method, tc.path, w.Code)
			continue
		}
		if detail := errorDetail(t, w); detail != tc.detail {
			t.Errorf("%s %s: unexpected detail %q", tc.method, tc.path, detail)
		}
	}
}

func TestRequireSelf_MatchPasses(t *testing.T) {
	r := newAuthRouter()

	w := doRequest(r, "GET", "/api/u1/tasks", "Bearer "+tokenFor(t, "u1"))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 when path matches token identity, got %d", w.Code)
	}
}
