package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carhub/listings-api/internal/core/domain"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password string) (string, error)
	loginFn  func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password string) (string, error) {
	return s.signupFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func newAuthContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (string, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "signed-token", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, `{"email":"alice@example.com","password":"secret1"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Signup_InvalidEmail(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (string, error) {
			t.Fatalf("service must not be called on validation failure")
			return "", nil
		},
	})

	c, _ := newAuthContext(t, `{"email":"not-an-email","password":"secret1"}`)
	err := handler.Signup(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (string, error) {
			t.Fatalf("service must not be called on validation failure")
			return "", nil
		},
	})

	c, _ := newAuthContext(t, `{"email":"a@x.com","password":"p1"}`)
	err := handler.Signup(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signup_DuplicateEmailPropagates(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrEmailTaken
		},
	})

	c, _ := newAuthContext(t, `{"email":"bob@example.com","password":"secret1"}`)
	if err := handler.Signup(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken to propagate to the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "login-token", nil
		},
	})

	c, rec := newAuthContext(t, `{"email":"carol@example.com","password":"s3cret1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "login-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagates(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	})

	c, _ := newAuthContext(t, `{"email":"carol@example.com","password":"wrongpw"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}
