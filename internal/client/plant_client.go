package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"plantlens/internal/models"
)

var (
	ErrNoImage        = errors.New("Please select an image first.")
	ErrIdentifyFailed = errors.New("An error occurred while identifying the plant. Please try again.")
)

// Client calls the identification endpoint of a plantlens server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Identify uploads image and returns the display mapping of the result. Every
// failure after the request is built is reported as ErrIdentifyFailed; the
// cause is only logged.
func (c *Client) Identify(ctx context.Context, filename string, image []byte) (*models.PlantDisplay, error) {
	if len(image) == 0 {
		return nil, ErrNoImage
	}

	info, err := c.identify(ctx, filename, image)
	if err != nil {
		c.log.Error("Error identifying plant", zap.Error(err))
		return nil, ErrIdentifyFailed
	}

	display := Present(*info)
	return &display, nil
}

func (c *Client) identify(ctx context.Context, filename string, image []byte) (*models.PlantInfo, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/identify-plant", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("identify plant: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var info models.PlantInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.log.Debug("API Response", zap.Any("plant_info", info))

	return &info, nil
}
