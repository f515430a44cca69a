package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testHandler() *Handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHandler(nil, logger)
}

// authenticated stamps a request with the user id the auth middleware would set
func authenticated(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "userID", id))
}

func TestProfileRequiresAuth(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"first_name":"Ann"}`))
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUpdateProfileRejectsMalformedBody(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"first_name":`)), "7")
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUserIDParsing(t *testing.T) {
	req := authenticated(httptest.NewRequest(http.MethodGet, "/", nil), "42")
	id, err := userID(req)
	if err != nil {
		t.Fatalf("userID failed: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}

	if _, err := userID(httptest.NewRequest(http.MethodGet, "/", nil)); err == nil {
		t.Error("expected an error without an authenticated context")
	}
}
