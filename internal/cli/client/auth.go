package client

import (
	"context"
	"fmt"
	"net/http"
)

// AdminIdentity is the fixed role treated as administrator. A role
// matches when its id or its name equals the identity's.
type AdminIdentity struct {
	RoleID   string
	RoleName string
}

// DefaultAdmin is the administrator role of the reference Directus project.
var DefaultAdmin = AdminIdentity{
	RoleID:   "3e935259-a0ca-416f-9807-4d11d6ff8466",
	RoleName: "Administrator",
}

// Matches reports whether role is the administrator role. A bare role
// reference is compared against both the id and the name.
func (a AdminIdentity) Matches(role *Role) bool {
	if role == nil {
		return false
	}
	if role.IsReference() {
		return role.ID != "" && (role.ID == a.RoleID || role.ID == a.RoleName)
	}
	return (a.RoleID != "" && role.ID == a.RoleID) || (a.RoleName != "" && role.Name == a.RoleName)
}

// Admin returns the administrator identity the client checks against.
func (c *Client) Admin() AdminIdentity {
	return c.admin
}

// Login authenticates against /auth/login and stores the access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if err := c.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	var loginResp AuthResponse
	err := c.do(ctx, "/auth/login", "", &RequestOptions{
		Method: http.MethodPost,
		Body:   creds,
	}, &loginResp)
	if err != nil {
		return nil, normalize(err, "login failed")
	}

	if loginResp.Data.AccessToken != "" {
		if err := c.tokens.SetToken(loginResp.Data.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to save authentication token: %w", err)
		}
	}

	c.logger.Info().Str("email", creds.Email).Msg("logged in")
	return &loginResp, nil
}

// Logout forgets the stored token. Directus is not called.
func (c *Client) Logout() error {
	return c.tokens.RemoveToken()
}

// GetCurrentUser fetches /users/me. It fails with ErrNoToken, without a
// network call, when no token is stored.
func (c *Client) GetCurrentUser(ctx context.Context) (*Response[AuthUser], error) {
	token, err := c.tokens.GetToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoToken
	}

	var user Response[AuthUser]
	if err := c.do(ctx, "/users/me", token, nil, &user); err != nil {
		return nil, normalize(err, "failed to get current user")
	}
	return &user, nil
}

// IsAuthenticated reports whether a token is stored. The token is not
// checked against Directus.
func (c *Client) IsAuthenticated() bool {
	token, err := c.tokens.GetToken()
	if err != nil {
		c.logger.Warn().Err(err).Msg("token store unavailable")
		return false
	}
	return token != ""
}

// AdminCheck is the outcome of CheckAdmin. Err is set when the check could
// not be made; Admin is then false.
type AdminCheck struct {
	Admin bool
	Err   error
}

// Failed reports whether the role could not be determined.
func (a AdminCheck) Failed() bool {
	return a.Err != nil
}

// CheckAdmin fetches the current user and compares its role with the
// administrator identity. It never returns an error on its own.
func (c *Client) CheckAdmin(ctx context.Context) AdminCheck {
	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("admin check failed")
		return AdminCheck{Err: err}
	}
	return AdminCheck{Admin: c.admin.Matches(user.Data.Role)}
}

// IsAdmin is CheckAdmin collapsed to a boolean: any failure is false.
func (c *Client) IsAdmin(ctx context.Context) bool {
	return c.CheckAdmin(ctx).Admin
}
