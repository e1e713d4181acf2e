package pageinsight

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(ClientOptions{})
	if c == nil {
		t.Fatal("NewHTTPClient returned nil")
	}
	if c.client == nil {
		t.Fatal("internal http.Client is nil")
	}
	if c.client.Timeout != DefaultFetchTimeout {
		t.Errorf("Timeout = %s, want %s", c.client.Timeout, DefaultFetchTimeout)
	}

	c = NewHTTPClient(ClientOptions{Timeout: 3 * time.Second})
	if c.client.Timeout != 3*time.Second {
		t.Errorf("Timeout = %s, want 3s", c.client.Timeout)
	}
}

func TestHTTPClient_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), userAgent)
		}
		if !strings.HasPrefix(r.Header.Get("Accept"), "text/html") {
			t.Errorf("Accept = %q, want text/html first", r.Header.Get("Accept"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "<html><body>Hello</body></html>")
	}))
	defer ts.Close()

	c := &HTTPClient{client: ts.Client()}
	body, status, err := c.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if string(data) != "<html><body>Hello</body></html>" {
		t.Errorf("body = %q, want %q", string(data), "<html><body>Hello</body></html>")
	}
}

func TestHTTPClient_Fetch_ErrorStatusIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, "<title>Missing</title>")
	}))
	defer ts.Close()

	c := &HTTPClient{client: ts.Client()}
	body, status, err := c.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	if status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", status, http.StatusNotFound)
	}
}

func TestHTTPClient_Fetch_DecodesCharset(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "header charset",
			contentType: "text/html; charset=windows-1252",
			body:        "<title>Caf\xe9</title>",
			want:        "<title>Café</title>",
		},
		{
			name:        "meta charset",
			contentType: "text/html",
			body:        "<meta charset=\"iso-8859-1\"><h1>R\xe9sum\xe9</h1>",
			want:        `<meta charset="iso-8859-1"><h1>Résumé</h1>`,
		},
		{
			name:        "utf-8 unchanged",
			contentType: "text/html; charset=utf-8",
			body:        "<title>Café</title>",
			want:        "<title>Café</title>",
		},
		{
			name:        "empty body",
			contentType: "text/html",
			body:        "",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			c := &HTTPClient{client: ts.Client()}
			body, _, err := c.Fetch(context.Background(), ts.URL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() { _ = body.Close() }()

			data, err := io.ReadAll(body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("body = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestNewTransport_NoProxy(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://proxy.example.com:3128")
	t.Setenv("HTTPS_PROXY", "http://proxy.example.com:3128")

	for _, blockPrivate := range []bool{true, false} {
		if tr := newTransport(blockPrivate, 4); tr.Proxy != nil {
			t.Errorf("newTransport(%v).Proxy is set, want nil so the dialer sees the target", blockPrivate)
		}
	}
}

func TestHTTPClient_Fetch_InvalidURL(t *testing.T) {
	c := NewHTTPClient(ClientOptions{})
	_, _, err := c.Fetch(context.Background(), "://bad-url")
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestHTTPClient_Fetch_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := &HTTPClient{client: ts.Client()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Fetch(ctx, ts.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestHTTPClient_Fetch_BlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewHTTPClient(ClientOptions{BlockPrivateNetworks: true})
	_, _, err := c.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected loopback fetch to be blocked, got nil error")
	}
}

func TestSafeRedirectPolicy(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		via     int
		wantErr bool
	}{
		{name: "http within limit", scheme: "https", via: 3, wantErr: false},
		{name: "too many redirects", scheme: "https", via: 5, wantErr: true},
		{name: "blocked ftp scheme", scheme: "ftp", via: 0, wantErr: true},
		{name: "blocked file scheme", scheme: "file", via: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{Scheme: tt.scheme, Host: "example.com"}} //nolint:exhaustruct
			via := make([]*http.Request, tt.via)

			err := safeRedirectPolicy(req, via)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeRedirectPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
