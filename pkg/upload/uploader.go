// Package upload is the payment-slip upload collaborator. The order flow
// only needs the resulting public URL; transport details stay behind the
// interface.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

type Uploader interface {
	// Upload stores the payload under the destination hint and returns its
	// public URL.
	Upload(ctx context.Context, filename string, data []byte, dest string) (string, error)
}

type HTTPUploader struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPUploader(baseURL string) *HTTPUploader {
	return &HTTPUploader{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, filename string, data []byte, dest string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload payload: %w", err)
	}
	if err := writer.WriteField("path", dest); err != nil {
		return "", fmt.Errorf("failed to write upload path: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var env struct {
		URL  string `json:"url"`
		Data *struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Data != nil && env.Data.URL != "" {
		return env.Data.URL, nil
	}
	if env.URL == "" {
		return "", fmt.Errorf("upload succeeded but no URL returned")
	}
	return env.URL, nil
}
