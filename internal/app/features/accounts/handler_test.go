package accounts_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/features/accounts"
	"github.com/skillsync/skillsync/internal/app/system/auth"
	"github.com/skillsync/skillsync/internal/testutil"
)

func newHandler(t *testing.T) *accounts.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "skillsync_test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return accounts.NewHandler(db, logger, sm)
}

func registerBody(username, email string) map[string]string {
	return map[string]string{
		"fullName": "Test User",
		"username": username,
		"email":    email,
		"password": "correct horse battery",
	}
}

func TestHandleRegister(t *testing.T) {
	h := newHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/auth/register", registerBody("tester", "tester@example.com"))
	rec := testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var created struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	rec.DecodeJSON(t, &created)
	if created.Username != "tester" {
		t.Errorf("username: got %q", created.Username)
	}

	// A session cookie comes back with the account.
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie after registration")
	}
}

func TestHandleRegister_Validation(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name string
		body map[string]string
		code string
	}{
		{"missing name", map[string]string{"username": "x_ok", "email": "a@b.com", "password": "longenough"}, "NAME_REQUIRED"},
		{"bad username", map[string]string{"fullName": "A", "username": "x", "email": "a@b.com", "password": "longenough"}, "BAD_USERNAME"},
		{"bad email", map[string]string{"fullName": "A", "username": "x_ok", "email": "nope", "password": "longenough"}, "BAD_EMAIL"},
		{"short password", map[string]string{"fullName": "A", "username": "x_ok", "email": "a@b.com", "password": "short"}, "WEAK_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/auth/register", tt.body)
			rec := testutil.NewRecorder()
			h.HandleRegister(rec.ResponseRecorder, req)

			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertErrorCode(t, tt.code)
		})
	}
}

func TestHandleRegister_Duplicates(t *testing.T) {
	h := newHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/auth/register", registerBody("tester", "tester@example.com"))
	rec := testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	req = testutil.NewJSONRequest(t, "POST", "/auth/register", registerBody("other", "tester@example.com"))
	rec = testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "EMAIL_TAKEN")

	req = testutil.NewJSONRequest(t, "POST", "/auth/register", registerBody("TESTER", "fresh@example.com"))
	rec = testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "USERNAME_TAKEN")
}

func TestHandleLogin(t *testing.T) {
	h := newHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/auth/register", registerBody("tester", "tester@example.com"))
	rec := testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "tester@example.com",
		"password": "correct horse battery",
	})
	rec = testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Wrong password and unknown email fail identically.
	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "tester@example.com",
		"password": "wrong password!",
	})
	rec = testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "BAD_CREDENTIALS")

	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "correct horse battery",
	})
	rec = testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "BAD_CREDENTIALS")
}
