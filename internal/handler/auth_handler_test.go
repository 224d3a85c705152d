package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/leavedesk/internal/auth"
	"github.com/hitoshi/leavedesk/internal/middleware"
	"github.com/hitoshi/leavedesk/internal/model"
)

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn       func(ctx context.Context, input auth.RegisterInput) (*model.User, error)
	loginFn          func(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
	return m.registerFn(ctx, input)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	return m.getCurrentUserFn(ctx, sessionID)
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieDomain: "",
		CookieSecure: false,
		SessionTTL:   3600,
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	created := newTestUser(model.RoleStudent)
	service := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
			if input.Email != "alice@example.com" {
				t.Errorf("input.Email = %q", input.Email)
			}
			if input.Password != "password123" {
				t.Errorf("input.Password = %q", input.Password)
			}
			return created, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"alice@example.com","password":"password123","name":"Alice","student_id":"S-1001"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	decoded := decodeBody(t, w.Body.Bytes())
	user, ok := decoded["user"].(map[string]any)
	if !ok {
		t.Fatalf("response should contain user object: %v", decoded)
	}
	if user["email"] != "alice@example.com" {
		t.Errorf("user.email = %v", user["email"])
	}
	// パスワードハッシュは決してレスポンスに含めない
	if _, exists := user["password_hash"]; exists {
		t.Error("password_hash must not appear in the response")
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	assertErrorCode(t, w.Body.Bytes(), "INVALID_REQUEST")
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
			return nil, model.NewEmailTakenError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"taken@example.com","password":"password123","name":"Bob"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	assertErrorCode(t, w.Body.Bytes(), model.ErrCodeEmailTaken)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := newTestUser(model.RoleStudent)
	session := &model.Session{
		ID:        strings.Repeat("ab", 32),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
			return session, user, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	decoded := decodeBody(t, w.Body.Bytes())
	if decoded["token"] != session.ID {
		t.Errorf("token = %v, want %q", decoded["token"], session.ID)
	}
	if _, ok := decoded["expires_at"]; !ok {
		t.Error("expires_at should be present")
	}

	// HTTP Only Cookieが設定されること
	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie should be set")
	}
	if sessionCookie.Value != session.ID {
		t.Errorf("cookie value = %q, want %q", sessionCookie.Value, session.ID)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if sessionCookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sessionCookie.SameSite)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
			return nil, nil, model.NewBadCredentialsError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	assertErrorCode(t, w.Body.Bytes(), model.ErrCodeBadCredentials)
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	var deletedToken string
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedToken = sessionID
			return nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deletedToken != "token-abc" {
		t.Errorf("deleted token = %q, want token-abc", deletedToken)
	}

	// Cookieが削除されること（MaxAge < 0）
	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expired session cookie should be set")
	}
	if sessionCookie.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", sessionCookie.MaxAge)
	}
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	user := newTestUser(model.RoleTeacher)
	service := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID != "token-abc" {
				t.Errorf("sessionID = %q, want token-abc", sessionID)
			}
			return user, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	decoded := decodeBody(t, w.Body.Bytes())
	u, ok := decoded["user"].(map[string]any)
	if !ok {
		t.Fatalf("response should contain user object")
	}
	if u["role"] != "teacher" {
		t.Errorf("user.role = %v, want teacher", u["role"])
	}
}

func TestAuthHandler_Me_CookieFallback(t *testing.T) {
	user := newTestUser(model.RoleStudent)
	service := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID != "cookie-token" {
				t.Errorf("sessionID = %q, want cookie-token", sessionID)
			}
			return user, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthHandler_Me_InvalidSession(t *testing.T) {
	service := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return nil, model.NewUnauthorizedError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
