package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spigell/resume-agent/internal/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSettings() *config.Settings {
	return &config.Settings{
		OpenAIAPIKey: "sk-test",
		DatabaseURL:  config.DefaultDatabaseURL,
		AppName:      config.DefaultAppName,
		FrontendURL:  config.DefaultFrontendURL,
	}
}

func do(t *testing.T, s *Server, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	return resp, string(body)
}

func TestRootHandler(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	want := `{"message":"Resume Agent API","status":"running","version":"0.1.0"}`
	if body != want {
		t.Fatalf("unexpected body:\n got %s\nwant %s", body, want)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != fiber.MIMEApplicationJSON {
		t.Fatalf("unexpected content type: %q", ct)
	}
}

func TestHealthHandler(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body != `{"status":"healthy"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestOpenAPIHandler(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var doc OpenAPIDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	if doc.Info.Title != Title || doc.Info.Description != Description || doc.Info.Version != Version {
		t.Fatalf("unexpected info: %+v", doc.Info)
	}
	for _, path := range []string{"/", "/health"} {
		if item, ok := doc.Paths[path]; !ok || item.Get == nil {
			t.Fatalf("expected GET %s to be documented", path)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var e ErrorResponse
	if err := json.Unmarshal([]byte(body), &e); err != nil || e.Error == "" {
		t.Fatalf("expected json error body, got %s", body)
	}
}

func TestHealthRejectsWrongMethod(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	resp, _ := do(t, s, httptest.NewRequest(http.MethodPost, "/health", nil))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")

	resp, _ := do(t, s, req)
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowCredentials); got != "true" {
		t.Fatalf("expected credentials to be allowed, got %q", got)
	}
}

func TestCORSRejectsOtherOrigin(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.example.com")

	resp, _ := do(t, s, req)
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("expected no allowed origin, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	settings := testSettings()
	settings.FrontendURL = "https://resume.example.com/"
	s := New(settings, zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://resume.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPut)
	req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "X-Custom-Header")

	resp, _ := do(t, s, req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "https://resume.example.com" {
		t.Fatalf("unexpected allowed origin: %q", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowHeaders); got != "X-Custom-Header" {
		t.Fatalf("expected requested headers to be reflected, got %q", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowMethods); got == "" {
		t.Fatal("expected allowed methods")
	}
}

func TestRequestLogging(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	s := New(testSettings(), zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	do(t, s, req)

	entries := observed.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["http_path"] != "/health" || ctx["http_method"] != http.MethodGet {
		t.Fatalf("unexpected request fields: %v", ctx)
	}
	if ctx["http_status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected status field: %v", ctx["http_status"])
	}
	if ctx["origin"] != "http://localhost:3000" {
		t.Fatalf("unexpected origin field: %v", ctx["origin"])
	}
	if ctx["service"] != Title {
		t.Fatalf("expected service field, got %v", ctx["service"])
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(testSettings(), zap.NewNop())
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := client.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status: %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunReturnsWhenAlreadyCancelled(t *testing.T) {
	s := New(testSettings(), zap.NewNop())
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return for a cancelled context")
	}

	if conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		conn.Close()
		t.Fatalf("expected nothing to listen on %s", addr)
	}
}

func TestServeStopsWhenCancelledBeforeAccepting(t *testing.T) {
	s := New(testSettings(), zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected serve error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	if conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		conn.Close()
		t.Fatalf("expected listener on %s to be closed", addr)
	}
}
