package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 60 * time.Second
	maxBodyBytes   = 16 << 20
)

// HTTPSource is a Source backed by the config server's HTTP API.
type HTTPSource struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	now     func() time.Time
}

var _ Source = (*HTTPSource)(nil)

type HTTPConfig struct {
	BaseURL string        // e.g. http://localhost:8090
	Timeout time.Duration // per request; 0 => DefaultTimeout
	Client  *http.Client  // optional; its own Timeout is left as is
}

func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported base url scheme %q", u.Scheme)
	}
	s := &HTTPSource{
		client:  cfg.Client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		now:     time.Now,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s, nil
}

type namespaceItem struct {
	NamespaceName string          `json:"namespaceName"`
	ID            json.RawMessage `json:"id"`
}

type releaseBody struct {
	// Configurations is a JSON-encoded object carried as a string; a plain
	// object is accepted as well.
	Configurations json.RawMessage `json:"configurations"`
	ReleaseKey     string          `json:"releaseKey"`
}

func (s *HTTPSource) ListNamespaces(ctx context.Context, appID, cluster string) (map[string]string, error) {
	path := "/apps/" + url.PathEscape(appID) + "/clusters/" + url.PathEscape(cluster) + "/namespaces"
	code, body, err := s.get(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if code != http.StatusOK {
		return out, nil
	}

	var items []namespaceItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: namespaces of %s/%s: %v", ErrDecode, appID, cluster, err)
	}
	for _, it := range items {
		if it.NamespaceName == "" {
			continue
		}
		out[it.NamespaceName] = rawID(it.ID)
	}
	return out, nil
}

func (s *HTTPSource) FetchLatest(ctx context.Context, appID, cluster, namespace string) (Result, error) {
	path := "/apps/" + url.PathEscape(appID) + "/clusters/" + url.PathEscape(cluster) +
		"/namespaces/" + url.PathEscape(namespace) + "/releases/latest"
	code, body, err := s.get(ctx, path)
	if err != nil {
		return Result{}, err
	}
	if code != http.StatusOK || len(bytes.TrimSpace(body)) == 0 {
		return Result{Status: NotFound, StatusCode: code}, nil
	}

	var rb releaseBody
	if err := json.Unmarshal(body, &rb); err != nil {
		return Result{}, fmt.Errorf("%w: release of %s: %v", ErrDecode, namespace, err)
	}
	cfg, err := decodeConfigurations(rb.Configurations)
	if err != nil {
		return Result{}, fmt.Errorf("%w: configurations of %s: %v", ErrDecode, namespace, err)
	}
	key := rb.ReleaseKey
	if key == "" {
		// no key to compare against: make every fetch count as a new release
		key = "local-" + strconv.FormatInt(s.now().UnixNano(), 10)
	}
	return Result{Status: Found, StatusCode: code, Configurations: cfg, ReleaseKey: key}, nil
}

func (s *HTTPSource) get(ctx context.Context, path string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, classify(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, classify(path, err)
	}
	return resp.StatusCode, body, nil
}

// classify maps a transport error to ErrTimeout or ErrUnreachable, keeping
// the original error in the chain. A connection that could not be set up is
// unreachable even when the dial itself timed out; only a server that accepted
// the connection and then went quiet counts as a timeout.
func classify(path string, err error) error {
	var (
		ne net.Error
		op *net.OpError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("GET %s: %w", path, err)
	case errors.As(err, &op) && op.Op == "dial":
		return fmt.Errorf("%w: GET %s: %w", ErrUnreachable, path, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: GET %s: %w", ErrTimeout, path, err)
	default:
		return fmt.Errorf("%w: GET %s: %w", ErrUnreachable, path, err)
	}
}

func decodeConfigurations(raw json.RawMessage) (map[string]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]string{}, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, err
		}
		if strings.TrimSpace(inner) == "" {
			return map[string]string{}, nil
		}
		raw = json.RawMessage(inner)
	}
	cfg := make(map[string]string)
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rawID renders the namespace id, which servers send as a number or a string.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
