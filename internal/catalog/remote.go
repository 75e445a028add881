package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RemoteConfig holds remote catalog client configuration.
type RemoteConfig struct {
	Endpoint string // base URL, e.g. https://catalog.example.com/v1
	Token    string
	Timeout  time.Duration
}

// LogValue masks the token when the config is logged via slog.
func (c RemoteConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("token", "[REDACTED]"),
	)
}

// RemoteService reads component metadata from an HTTP catalog:
//
//	GET {endpoint}/filters            -> {"filters": [...]}
//	GET {endpoint}/components?filter= -> {"components": [...]}
//	GET {endpoint}/components/{name}  -> component schema document
type RemoteService struct {
	cfg    RemoteConfig
	http   *http.Client
	logger *slog.Logger
}

// NewRemoteService creates a remote catalog client.
func NewRemoteService(cfg RemoteConfig, logger *slog.Logger) *RemoteService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &RemoteService{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "catalog-remote"),
	}
}

func (s *RemoteService) Filters(ctx context.Context) ([]string, error) {
	body, err := s.get(ctx, "/filters")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Filters []string `json:"filters"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal filters: %w", err)
	}
	return resp.Filters, nil
}

func (s *RemoteService) ComponentNames(ctx context.Context, filter string) ([]string, error) {
	p := "/components"
	if filter != "" && filter != AllFilter {
		p += "?filter=" + url.QueryEscape(filter)
	}
	body, err := s.get(ctx, p)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Components []string `json:"components"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal components: %w", err)
	}
	return resp.Components, nil
}

func (s *RemoteService) Description(ctx context.Context, name string) (string, error) {
	schema, err := s.Schema(ctx, name)
	if err != nil {
		return "", err
	}
	return schema.Component.Description, nil
}

func (s *RemoteService) Capabilities(ctx context.Context, name string) (Capabilities, error) {
	schema, err := s.Schema(ctx, name)
	if err != nil {
		return Capabilities{}, err
	}
	return Capabilities{
		ConsumerOnly: schema.Component.ConsumerOnly,
		ProducerOnly: schema.Component.ProducerOnly,
	}, nil
}

func (s *RemoteService) Schema(ctx context.Context, name string) (*Schema, error) {
	body, err := s.get(ctx, "/components/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	return ParseSchema(body)
}

// get performs a GET request, retrying once on 5xx and 429 responses.
func (s *RemoteService) get(ctx context.Context, p string) ([]byte, error) {
	endpoint := s.cfg.Endpoint + p

	var lastErr error
	for attempt := range 2 {
		if attempt > 0 {
			s.logger.Debug("retrying catalog request", "attempt", attempt+1, "path", p)
		}

		body, err := s.doRequest(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *serverError
		if !errors.As(err, &se) {
			return nil, err
		}

		wait := time.Second
		if se.retryAfter > 0 {
			wait = se.retryAfter
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("catalog request failed after retries: %w", lastErr)
}

func (s *RemoteService) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	s.logger.Debug("sending catalog request", "endpoint", endpoint)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	const maxBodyBytes = 10 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &serverError{statusCode: resp.StatusCode, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return nil, &serverError{statusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

type serverError struct {
	statusCode int
	retryAfter time.Duration
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: status %d", e.statusCode)
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
