// internal/testutil/http.go

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger returns a quiet logger for tests.
func Logger() *zap.Logger {
	return zap.NewNop()
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Principal builds an auth.Principal from a stored user.
func Principal(u models.User) auth.Principal {
	return auth.Principal{ID: u.ID, Name: u.Name}
}

// RandomPrincipal builds a principal for a user that does not exist.
func RandomPrincipal(name string) auth.Principal {
	return auth.Principal{ID: primitive.NewObjectID(), Name: name}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a principal in context.
func NewAuthenticatedRequest(method, target string, p auth.Principal) *http.Request {
	return auth.WithTestPrincipal(httptest.NewRequest(method, target, nil), p)
}

// NewAuthenticatedJSONRequest creates a JSON request with a principal in context.
func NewAuthenticatedJSONRequest(t *testing.T, method, target string, p auth.Principal, body any) *http.Request {
	t.Helper()
	return auth.WithTestPrincipal(NewJSONRequest(t, method, target, body), p)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// DecodeBody unmarshals the response body into out.
func (r *ResponseRecorder) DecodeBody(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", r.Body.String(), err)
	}
}
