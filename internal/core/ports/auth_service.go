package ports

import "context"

// AuthService handles account creation and login. Both operations return a
// signed bearer token carrying the user's id.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}
