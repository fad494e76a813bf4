package remover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"unmark/internal/adapters/imaging"
	"unmark/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const (
	removePath  = "/api/remove-watermark"
	inpaintPath = "/inpaint"
)

// Client talks to the remote watermark removal service.
type Client struct {
	baseURL    string
	inpaintURL string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a client for the service at baseURL. An empty inpaintURL defaults to the inpaint route of
// the same service.
func NewClient(baseURL, inpaintURL, apiKey string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if inpaintURL == "" {
		inpaintURL = baseURL + inpaintPath
	}

	return &Client{
		baseURL:    baseURL,
		inpaintURL: inpaintURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type inpaintRequest struct {
	Image string `json:"image"`
	Mask  string `json:"mask"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Remove(ctx context.Context, upload domain.Upload) ([]byte, error) {
	if len(upload.Data) == 0 {
		return nil, domain.ErrMissingImage
	}

	payloadBuf := new(bytes.Buffer)
	w := multipart.NewWriter(payloadBuf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(upload.Name)))
	header.Set("Content-Type", upload.MIME)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("error creating multipart body: %w", err)
	}

	if _, err := part.Write(upload.Data); err != nil {
		return nil, fmt.Errorf("error writing multipart body: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	log.Debug().Str("file", upload.Name).Int("bytes", len(upload.Data)).Msg("sending removal request")

	return c.post(ctx, c.baseURL+removePath, w.FormDataContentType(), payloadBuf)
}

func (c *Client) Inpaint(ctx context.Context, image, mask []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, domain.ErrMissingImage
	}

	if len(mask) == 0 {
		return nil, errors.New("missing mask")
	}

	req := inpaintRequest{
		Image: imaging.DataURL(image),
		Mask:  imaging.DataURL(mask),
	}

	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(req); err != nil {
		return nil, fmt.Errorf("error encoding inpaint request: %w", err)
	}

	log.Debug().Int("imageBytes", len(image)).Int("maskBytes", len(mask)).Msg("sending inpaint request")

	return c.post(ctx, c.inpaintURL, "application/json", payloadBuf)
}

func (c *Client) post(ctx context.Context, url, contentType string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("error creating POST request")
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serviceErr := &domain.ServiceError{Status: res.StatusCode, Message: errorMessage(res.StatusCode, body)}
		log.Warn().Int("status", res.StatusCode).Str("url", url).Str("error", serviceErr.Message).
			Msg("service returned an error")
		return nil, serviceErr
	}

	return body, nil
}

// errorMessage prefers the service's own error text and falls back to the status code.
func errorMessage(status int, body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Debug().Err(err).Msg("error body is not JSON")
	}

	if resp.Error != "" {
		return resp.Error
	}

	return fmt.Sprintf("Request failed (%d)", status)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
