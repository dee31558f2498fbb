package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rosales/inkwell/internal/apperr"
	"github.com/rosales/inkwell/internal/models"
)

func TestLocalVerifier(t *testing.T) {
	v := &LocalVerifier{User: models.Identity{ID: "dev", Email: "dev@example.com"}}

	for _, token := range []string{"", "anything"} {
		id, err := v.Verify(context.Background(), token)
		if err != nil {
			t.Fatalf("Verify(%q): %v", token, err)
		}
		if id.ID != "dev" {
			t.Errorf("id = %q", id.ID)
		}
	}
}

func TestStaticVerifier(t *testing.T) {
	v := &StaticVerifier{
		Token: "secret-token",
		User:  models.Identity{ID: "u1", Email: "u1@example.com"},
	}

	id, err := v.Verify(context.Background(), "secret-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "u1" {
		t.Errorf("id = %q", id.ID)
	}

	for _, bad := range []string{"", "wrong"} {
		if _, err := v.Verify(context.Background(), bad); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("Verify(%q) = %v, want ErrUnauthenticated", bad, err)
		}
	}
}

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["token"] != "valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id":"u42","email":"u42@example.com"}`)
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second)

	id, err := v.Verify(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "u42" || id.Email != "u42@example.com" {
		t.Errorf("identity = %+v", id)
	}

	if _, err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Verify bad = %v, want ErrUnauthenticated", err)
	}
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Verify empty = %v, want ErrUnauthenticated", err)
	}
}

func TestRemoteVerifierEmptyIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second)
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Verify = %v, want ErrUnauthenticated on empty identity", err)
	}
}

func TestIdentityContext(t *testing.T) {
	if got := IdentityFrom(context.Background()); got != nil {
		t.Errorf("IdentityFrom empty ctx = %+v, want nil", got)
	}

	want := &models.Identity{ID: "u1"}
	ctx := WithIdentity(context.Background(), want)
	if got := IdentityFrom(ctx); got == nil || got.ID != "u1" {
		t.Errorf("IdentityFrom = %+v", got)
	}
}
