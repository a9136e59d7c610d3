package runyard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload stores a file under the authenticated account.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("runyard: build multipart: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("runyard: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("runyard: build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("runyard: decode response: %w", err)
	}
	return &out, nil
}

// Files lists the authenticated account's files.
func (c *Client) Files(ctx context.Context) ([]File, error) {
	out, err := doRequest[struct {
		Files []File `json:"files"`
	}](ctx, c, http.MethodGet, "/files", nil, true)
	if err != nil {
		return nil, err
	}
	return out.Files, nil
}

// Rename changes a file's display name and returns the new name.
func (c *Client) Rename(ctx context.Context, fileID, newName string) (string, error) {
	body := map[string]string{"filename": newName}
	out, err := doRequest[struct {
		NewName string `json:"new_name"`
	}](ctx, c, http.MethodPut, "/files/"+fileID+"/rename", body, true)
	if err != nil {
		return "", err
	}
	return out.NewName, nil
}

// Download streams a file's content. The caller must close the reader.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/download/"+fileID, nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseError(resp)
	}
	return resp.Body, nil
}
