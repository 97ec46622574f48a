package remote

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func newTestSource(t *testing.T, h http.HandlerFunc, timeout time.Duration) *HTTPSource {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, err := NewHTTPSource(HTTPConfig{BaseURL: srv.URL + "/", Timeout: timeout})
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	return s
}

func TestListNamespaces(t *testing.T) {
	var gotPath string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"namespaceName":"application","id":7},{"namespaceName":"common.yaml","id":"abc"},{"id":9}]`))
	}, time.Second)

	got, err := s.ListNamespaces(context.Background(), "orders", "default")
	if err != nil {
		t.Fatalf("ListNamespaces: %v", err)
	}
	if gotPath != "/apps/orders/clusters/default/namespaces" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(got) != 2 || got["application"] != "7" || got["common.yaml"] != "abc" {
		t.Fatalf("unexpected namespaces %v", got)
	}
}

func TestListNamespacesNonOKIsEmpty(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, time.Second)

	got, err := s.ListNamespaces(context.Background(), "orders", "default")
	if err != nil {
		t.Fatalf("non-200 must not be an error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
}

func TestListNamespacesBadBody(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}, time.Second)

	_, err := s.ListNamespaces(context.Background(), "orders", "default")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestFetchLatestEncodedString(t *testing.T) {
	var gotPath string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"configurations":"{\"x\":\"1\",\"y\":\"two\"}","releaseKey":"r1"}`))
	}, time.Second)

	res, err := s.FetchLatest(context.Background(), "orders", "default", "config.json")
	if err != nil {
		t.Fatalf("FetchLatest: %v", err)
	}
	if gotPath != "/apps/orders/clusters/default/namespaces/config.json/releases/latest" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if res.Status != Found || res.ReleaseKey != "r1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Configurations["x"] != "1" || res.Configurations["y"] != "two" {
		t.Fatalf("unexpected configurations %v", res.Configurations)
	}
}

func TestFetchLatestObjectAndMissingKey(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"configurations":{"x":"1"}}`))
	}, time.Second)

	a, err := s.FetchLatest(context.Background(), "orders", "default", "application")
	if err != nil {
		t.Fatalf("FetchLatest: %v", err)
	}
	if a.Configurations["x"] != "1" {
		t.Fatalf("object configurations not decoded: %v", a.Configurations)
	}
	if a.ReleaseKey == "" {
		t.Fatalf("a release key must be synthesized when the server omits it")
	}
	b, err := s.FetchLatest(context.Background(), "orders", "default", "application")
	if err != nil {
		t.Fatal(err)
	}
	if a.ReleaseKey == b.ReleaseKey {
		t.Fatalf("synthesized keys must differ between fetches, both %q", a.ReleaseKey)
	}
}

func TestFetchLatestNotFound(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}
	for name, h := range cases {
		s := newTestSource(t, h, time.Second)
		res, err := s.FetchLatest(context.Background(), "orders", "default", "application")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if res.Status != NotFound {
			t.Fatalf("%s: expected NotFound, got %+v", name, res)
		}
	}
}

func TestFetchLatestBadConfigurations(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"configurations":"{\"x\":1}","releaseKey":"r1"}`))
	}, time.Second)

	_, err := s.FetchLatest(context.Background(), "orders", "default", "application")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("non-string values should be ErrDecode, got %v", err)
	}
}

func TestTimeoutIsClassified(t *testing.T) {
	release := make(chan struct{})
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := s.ListNamespaces(context.Background(), "orders", "default")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Fatalf("timeout must not be classified as unreachable")
	}
}

// dialTimeoutClient fails every connection attempt the way a host that drops
// packets does: the dial runs into its deadline.
func dialTimeoutClient() *http.Client {
	return &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, &net.OpError{Op: "dial", Net: network, Err: os.ErrDeadlineExceeded}
		},
	}}
}

func TestDialTimeoutIsUnreachable(t *testing.T) {
	s, err := NewHTTPSource(HTTPConfig{
		BaseURL: "http://config.example:8090",
		Timeout: time.Second,
		Client:  dialTimeoutClient(),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.ListNamespaces(context.Background(), "orders", "default")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("dial timeout should be classified unreachable, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("dial timeout must not be classified as a read timeout: %v", err)
	}
	var ne net.Error
	if !errors.As(err, &ne) || !ne.Timeout() {
		t.Fatalf("underlying dial error should stay in the chain: %v", err)
	}
}

func TestConnectionFailureIsClassified(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s, err := NewHTTPSource(HTTPConfig{BaseURL: "http://" + addr, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.FetchLatest(context.Background(), "orders", "default", "application")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestNewHTTPSourceRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8090", "ftp://host"} {
		if _, err := NewHTTPSource(HTTPConfig{BaseURL: u}); err == nil {
			t.Fatalf("expected error for %q", u)
		}
	}
	if !strings.HasPrefix(NotFound.String(), "not") || Found.String() != "found" {
		t.Fatalf("unexpected status strings")
	}
}
