package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hitech-quotation-tool/models"
)

const imgbbServiceName = "imgbb"

// ImgBBHost uploads images to ImgBB
type ImgBBHost struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewImgBBHost creates an ImgBB uploader
func NewImgBBHost(apiURL, apiKey string, timeout time.Duration) *ImgBBHost {
	return &ImgBBHost{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Ensure ImgBBHost implements ImageHostInterface
var _ ImageHostInterface = (*ImgBBHost)(nil)

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image as a base64 form field named after filename (without extension)
func (h *ImgBBHost) Upload(ctx context.Context, imageData []byte, filename string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("image", base64.StdEncoding.EncodeToString(imageData)); err != nil {
		return "", fmt.Errorf("failed to write image field: %w", err)
	}
	name := strings.TrimSuffix(filename, ".jpg")
	if err := w.WriteField("name", name); err != nil {
		return "", fmt.Errorf("failed to write name field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	endpoint := h.apiURL + "?key=" + url.QueryEscape(h.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		return "", &models.ServiceError{Service: imgbbServiceName, Message: "upload request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.ServiceError{Service: imgbbServiceName, Message: "failed to read upload response", Err: err}
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &models.ServiceError{Service: imgbbServiceName, Message: fmt.Sprintf("invalid upload response (HTTP %d)", resp.StatusCode), Err: err}
	}
	if !parsed.Success || parsed.Data.URL == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("ImgBB upload failed (HTTP %d)", resp.StatusCode)
		}
		return "", &models.ServiceError{Service: imgbbServiceName, Message: msg}
	}
	return parsed.Data.URL, nil
}
