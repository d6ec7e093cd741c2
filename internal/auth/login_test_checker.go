package auth

import "context"

// LoginTestChecker is an in-memory Checker, token -> user id.
type LoginTestChecker struct {
	Sessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Sessions: map[string]string{},
	}
}

func (c *LoginTestChecker) UserID(_ context.Context, token string) (string, error) {
	return c.Sessions[token], nil
}

func (c *LoginTestChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	userID, err := c.UserID(ctx, token)
	return userID != "", err
}
