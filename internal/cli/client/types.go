package client

import (
	"encoding/json"
	"strings"
)

// Credentials are sent once to /auth/login and never stored.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the body of a successful /auth/login call.
type AuthResponse struct {
	Data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Expires      int64  `json:"expires"` // milliseconds
	} `json:"data"`
}

// Meta is present on collection responses when requested with ?meta=.
type Meta struct {
	TotalCount  *int `json:"total_count,omitempty"`
	FilterCount *int `json:"filter_count,omitempty"`
}

// Response is the {"data": ...} envelope Directus wraps every payload in.
type Response[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Role is a Directus role. The API returns either the bare role id or,
// when the relation is expanded, the role object.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`

	ref bool
}

// IsReference reports whether the role arrived as a bare id string.
func (r *Role) IsReference() bool {
	return r.ref
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Role{ID: id, ref: true}
		return nil
	}

	type plain Role
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Role(p)
	r.ref = false
	return nil
}

// MarshalJSON keeps the shape the role was received in. Roles are always
// held as *Role, so the pointer receiver covers every encode.
func (r *Role) MarshalJSON() ([]byte, error) {
	if r.ref {
		return json.Marshal(r.ID)
	}
	type plain Role
	return json.Marshal(plain(*r))
}

// String returns the role name, falling back to its id.
func (r *Role) String() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// AuthUser is the user returned by /users/me.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      *Role  `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName returns "First Last", or the email when no name is set.
func (u *AuthUser) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Profile is a record of the profiles collection.
type Profile struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Bio       string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewProfile is the body of a profile creation.
type NewProfile struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ProfilePatch is a partial update; nil fields are left untouched.
type ProfilePatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty"`
	Bio    *string `json:"bio,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Bio == nil && p.Avatar == nil
}

// File is a directus_files record.
type File struct {
	ID               string `json:"id" yaml:"id"`
	FilenameDownload string `json:"filename_download" yaml:"filename_download"`
	Filesize         int64  `json:"filesize" yaml:"filesize"`
	Type             string `json:"type" yaml:"type"`
	URL              string `json:"url,omitempty" yaml:"url,omitempty"`
}

// FileUploadResponse is the body returned by POST /files.
type FileUploadResponse = Response[File]
