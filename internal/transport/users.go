package transport

import (
	"context"
	"net/http"

	"github.com/lepinkainen/shelf/internal/account"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, "login", http.MethodPost, c.paths.Login, nil, credentials{username, password}, nil)
}

// Register creates an account and stores the session cookie.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, "register", http.MethodPost, c.paths.Register, nil, credentials{username, password}, nil)
}

// LoadUsers lists registered users. Requires a logged-in session.
func (c *Client) LoadUsers(ctx context.Context) ([]account.User, error) {
	var users []account.User
	if err := c.do(ctx, "load users", http.MethodGet, c.paths.Users, nil, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []account.User{}
	}
	return users, nil
}
