package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UploadFile sends r to /files as a multipart body with a single "file"
// field. It fails with ErrNoToken, without a network call, when no token
// is stored.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*FileUploadResponse, error) {
	token, err := c.tokens.GetToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoToken
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var resp FileUploadResponse
	err = c.do(ctx, "/files", token, &RequestOptions{
		Method:  http.MethodPost,
		Body:    &body,
		Headers: map[string]string{"Content-Type": form.FormDataContentType()},
	}, &resp)
	if err != nil {
		return nil, normalize(err, "file upload failed")
	}
	return &resp, nil
}
