package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const profilesCollection = "profiles"

var errMissingID = errors.New("profile id is required")

// ListOptions narrow a profile listing. Zero values are omitted.
type ListOptions struct {
	Limit  int
	Sort   string
	Search string
	// WithTotal asks Directus for meta.total_count.
	WithTotal bool
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.WithTotal {
		q.Set("meta", "total_count")
	}
	return q
}

func profilePath(id string) string {
	return profilesCollection + "/" + url.PathEscape(id)
}

// GetProfiles lists the profiles collection.
func (c *Client) GetProfiles(ctx context.Context, opts ListOptions) (*Response[[]Profile], error) {
	var resp Response[[]Profile]
	if err := c.Request(ctx, profilesCollection, &RequestOptions{Query: opts.query()}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches one profile by id.
func (c *Client) GetProfile(ctx context.Context, id string) (*Response[Profile], error) {
	if id == "" {
		return nil, errMissingID
	}
	var resp Response[Profile]
	if err := c.Request(ctx, profilePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProfile creates a profile and returns it with its assigned id.
func (c *Client) CreateProfile(ctx context.Context, profile NewProfile) (*Response[Profile], error) {
	if err := c.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	var resp Response[Profile]
	err := c.Request(ctx, profilesCollection, &RequestOptions{
		Method: http.MethodPost,
		Body:   profile,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile patches the given fields of a profile.
func (c *Client) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*Response[Profile], error) {
	if id == "" {
		return nil, errMissingID
	}
	if err := c.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	var resp Response[Profile]
	err := c.Request(ctx, profilePath(id), &RequestOptions{
		Method: http.MethodPatch,
		Body:   patch,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProfile deletes a profile by id.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return c.Request(ctx, profilePath(id), &RequestOptions{Method: http.MethodDelete}, nil)
}
