package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/heyireeh/storefront-api/internal/auth"
	"github.com/heyireeh/storefront-api/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
	}
}

func newAuthRouter(users *stubUserRepo, cfg config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", registerHandler(users))
	r.POST("/auth/login", loginHandler(users, cfg))
	r.POST("/auth/seed", seedAdminHandler(users, cfg))
	return r
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	r := newAuthRouter(newStubUserRepo(), cfg)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Jane","email":"jane@example.com","password":"hunter22"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	if bodyStr := w.Body.String(); len(bodyStr) > 0 && json.Valid(w.Body.Bytes()) {
		var resp struct {
			User struct {
				Password string `json:"password"`
				Email    string `json:"email"`
			} `json:"user"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.User.Password != "" {
			t.Fatalf("register echoed a credential: %s", bodyStr)
		}
	}

	w = doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"hunter22"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad login body: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("no token issued")
	}
	if resp.User.Role != auth.RoleUser {
		t.Fatalf("role=%q, want %q", resp.User.Role, auth.RoleUser)
	}
	claims, err := auth.ParseToken(cfg.JWTSecret, resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Role != auth.RoleUser {
		t.Fatalf("token role=%q", claims.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(newStubUserRepo(), testConfig())
	body := `{"name":"Jane","email":"dup@example.com","password":"pw"}`
	if w := doJSON(r, http.MethodPost, "/auth/register", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register status=%d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/auth/register", body, nil); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status=%d, want 409", w.Code)
	}
}

// Wrong password and unknown email must be indistinguishable.
func TestLoginConstantShapeFailure(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(newStubUserRepo(), testConfig())
	doJSON(r, http.MethodPost, "/auth/register",
		`{"name":"Jane","email":"jane@example.com","password":"right"}`, nil)

	wrongPw := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"wrong"}`, nil)
	noUser := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"ghost@example.com","password":"wrong"}`, nil)

	if wrongPw.Code != http.StatusUnauthorized || noUser.Code != http.StatusUnauthorized {
		t.Fatalf("statuses=%d/%d, want 401/401", wrongPw.Code, noUser.Code)
	}
	if wrongPw.Body.String() != noUser.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPw.Body.String(), noUser.Body.String())
	}
}

// A failing user store must not masquerade as bad credentials.
func TestLoginStoreFailure(t *testing.T) {
	t.Parallel()

	users := newStubUserRepo()
	users.failWith = errors.New("connection reset")
	r := newAuthRouter(users, testConfig())

	w := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"right"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
}

func TestSeedAdminOnce(t *testing.T) {
	t.Parallel()

	users := newStubUserRepo()
	cfg := testConfig()
	r := newAuthRouter(users, cfg)

	if w := doJSON(r, http.MethodPost, "/auth/seed", "", nil); w.Code != http.StatusCreated {
		t.Fatalf("seed status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodPost, "/auth/seed", "", nil); w.Code != http.StatusConflict {
		t.Fatalf("second seed status=%d, want 409", w.Code)
	}

	// seeded admin can log in with the configured credentials
	w := doJSON(r, http.MethodPost, "/auth/login",
		`{"email":"admin@example.com","password":"admin-pass"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin login status=%d body=%s", w.Code, w.Body.String())
	}
}
