package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newManager(t *testing.T, expiry time.Duration) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret-0123456789", expiry, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return tm
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("  ", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestMintVerify_RoundTrip(t *testing.T) {
	tm := newManager(t, time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Name: "alice"}

	token, err := tm.Mint(user)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	p, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if p.ID != user.ID {
		t.Errorf("principal ID: got %v, want %v", p.ID, user.ID)
	}
	if p.Name != "alice" {
		t.Errorf("principal Name: got %q, want %q", p.Name, "alice")
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := newManager(t, time.Nanosecond)
	token, err := tm.Mint(models.User{ID: primitive.NewObjectID(), Name: "bob"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := tm.Verify(token); err != auth.ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newManager(t, time.Hour)
	other, err := auth.NewTokenManager("different-secret-xyz", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}

	token, err := other.Mint(models.User{ID: primitive.NewObjectID(), Name: "eve"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := tm.Verify(token); err != auth.ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated for forged token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := newManager(t, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tm.Verify(token); err != auth.ErrUnauthenticated {
			t.Errorf("Verify(%q): expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestRequirePrincipal_MissingToken(t *testing.T) {
	tm := newManager(t, time.Hour)

	called := false
	h := tm.RequirePrincipal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/notes", nil))

	if called {
		t.Error("handler must not run without a valid credential")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequirePrincipal_ValidToken(t *testing.T) {
	tm := newManager(t, time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Name: "carol"}
	token, err := tm.Mint(user)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	var got auth.Principal
	h := tm.RequirePrincipal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentPrincipal(r)
	}))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if got.ID != user.ID {
		t.Errorf("principal from context: got %v, want %v", got.ID, user.ID)
	}
}

func TestTokenFromRequest_Cookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: "cookie-token"})
	if got := auth.TokenFromRequest(req); got != "cookie-token" {
		t.Errorf("got %q, want %q", got, "cookie-token")
	}
}

func TestTokenFromRequest_QueryParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws?token=ws-token", nil)
	if got := auth.TokenFromRequest(req); got != "ws-token" {
		t.Errorf("got %q, want %q", got, "ws-token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !auth.CheckPassword(hash, "s3cret-password") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
}
