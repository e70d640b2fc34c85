package httpjson_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.Validation, "BAD_INPUT", "bad"), http.StatusBadRequest},
		{apperr.New(apperr.Precondition, "TEAM_FULL", "full"), http.StatusConflict},
		{apperr.New(apperr.NotFound, "NOT_FOUND", "missing"), http.StatusNotFound},
		{apperr.New(apperr.Unauthorized, "NO_SESSION", "sign in"), http.StatusUnauthorized},
		{apperr.New(apperr.Forbidden, "NOT_OWNER", "nope"), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := httpjson.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestError_MasksInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, nil, errors.New("db connection string leaked"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "leaked") {
		t.Error("internal error details must not reach the client")
	}
	if !strings.Contains(body, "INTERNAL") {
		t.Errorf("expected INTERNAL code, got %s", body)
	}
}

func TestError_PassesTaxonomyThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, nil, apperr.New(apperr.Precondition, "TEAM_FULL", "team is at capacity"))

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "TEAM_FULL") || !strings.Contains(body, "team is at capacity") {
		t.Errorf("body: %s", body)
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))
	if err := httpjson.Decode(r, &dst, 1024); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if dst.Name != "ok" {
		t.Errorf("name: got %q", dst.Name)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{oops`))
	err := httpjson.Decode(r, &dst, 1024)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("bad JSON: got %v, want Validation", err)
	}
}

func TestNotFoundIf(t *testing.T) {
	err := httpjson.NotFoundIf(mongo.ErrNoDocuments, mongo.ErrNoDocuments, "project")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("got %v, want NotFound", err)
	}

	other := errors.New("network down")
	if got := httpjson.NotFoundIf(other, mongo.ErrNoDocuments, "project"); got != other {
		t.Errorf("non-sentinel error must pass through, got %v", got)
	}
}
