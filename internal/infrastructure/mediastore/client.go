// Package mediastore talks to the photo storage service. Uploads are
// synchronous: the caller gets back a stable URL or an error to retry.
package mediastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/config"
	"github.com/fieldops-microservice/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.MediaConfig, logger *zap.Logger) repository.MediaRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends the photo as multipart form data and returns the stored
// URL. Failures map to a retryable error at the use case layer; a photo
// slot is only filled once the store confirmed the upload.
func (c *client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/v1/photos"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Media store request failed", zap.String("filename", filename), zap.Error(err))
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Media store rejected upload",
			zap.Int("status", resp.StatusCode),
			zap.String("filename", filename),
			zap.ByteString("body", payload))
		return "", fmt.Errorf("media store returned status %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("media store returned empty url")
	}

	c.logger.Debug("Photo uploaded",
		zap.String("filename", filename),
		zap.String("url", out.URL))
	return out.URL, nil
}
