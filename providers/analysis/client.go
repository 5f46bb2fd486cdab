package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"idea-engine/config"
)

// Response ist die unveränderte Antwort des Analyse-Service.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client leitet Anfragen an den externen Analyse-Service (Python) weiter.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewClient erstellt einen neuen Client. Ein Timeout von 0 bedeutet kein Timeout.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.PythonAPIURL, "/"),
		HTTP:    &http.Client{Timeout: cfg.PythonAPITimeout},
		Logger:  logger,
	}
}

// Forward sendet die Anfrage an BaseURL+path?rawQuery und gibt Status und Body unverändert zurück.
// Ein Fehler bedeutet, dass der Service nicht erreichbar war; Fehlerstatus des Service sind kein Fehler.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, body []byte, contentType string) (*Response, error) {
	url := c.BaseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	log := c.Logger.With(zap.String("method", method), zap.String("url", url))
	log.Debug("Rufe Analyse-Service auf.")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn("Analyse-Service antwortet mit Fehlerstatus", zap.Int("status", resp.StatusCode))
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
