package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Remote calls an external model service that owns the trained model.
type Remote struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

type predictRequest struct {
	Texts []string `json:"texts"`
}

type predictResponse struct {
	Labels []string `json:"labels"`
}

func NewRemote(baseURL string, timeout time.Duration, logger *log.Logger) *Remote {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Remote) Predict(ctx context.Context, texts []string) ([]string, error) {
	if c == nil {
		return nil, errors.New("nil classifier client")
	}
	endpoint := c.baseURL + "/predict"

	b, err := json.Marshal(predictRequest{Texts: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		if c.logger != nil {
			c.logger.Printf("[Classifier] Predict error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return nil, fmt.Errorf("classifier predict failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("classifier predict: decode: %w", err)
	}
	return out.Labels, nil
}

func (c *Remote) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("nil classifier client")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("classifier service unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier health check failed: status=%d", resp.StatusCode)
	}
	return nil
}

// Fingerprint identifies the remote service by its base URL.
func (c *Remote) Fingerprint() string {
	if c == nil {
		return ""
	}
	return "remote:" + digest([]byte(c.baseURL))
}

var _ Classifier = (*Remote)(nil)
