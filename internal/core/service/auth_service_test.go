package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carhub/listings-api/internal/core/domain"
)

type stubAuthRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthService(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
}

func decodeUserID(t *testing.T, token string) string {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	userID, _ := claims["user_id"].(string)
	return userID
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	token, err := svc.Signup(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	stored := repo.users["alice@example.com"]
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if got := decodeUserID(t, token); got != stored.ID {
		t.Fatalf("token user_id = %q, want %q", got, stored.ID)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, err := svc.Signup(context.Background(), "", "pass"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice@example.com", ""); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "not-an-email", "pass"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for malformed email, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "bob@example.com", "pass"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "bob@example.com", "pass2"); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
}

func TestAuthService_Signup_DistinctDigests(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "a@x.com", "samepass"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "b@x.com", "samepass"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if repo.users["a@x.com"].PasswordHash == repo.users["b@x.com"].PasswordHash {
		t.Fatalf("equal passwords must not produce equal digests")
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	signupToken, err := svc.Signup(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	loginToken, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if decodeUserID(t, signupToken) != decodeUserID(t, loginToken) {
		t.Fatalf("login token decodes to a different user than signup")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "dave@example.com", "goodpass"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	// Unknown email and wrong password are indistinguishable to the caller.
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", 5*time.Hour, zerolog.Nop())

	token, err := svc.Signup(context.Background(), "ttl@example.com", "pass")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("token missing exp claim: %v", err)
	}
	want := time.Now().Add(5 * time.Hour)
	if diff := exp.Time.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("exp %v not within a minute of %v", exp.Time, want)
	}
}
