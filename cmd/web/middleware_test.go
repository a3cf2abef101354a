package main

import (
	"strings"
	"testing"

	"github.com/mvirta/fitpipe/internal/e2etest"
	"github.com/mvirta/fitpipe/internal/testhelpers"
)

func Test_application_secureHeaders(t *testing.T) {
	ctx := t.Context()

	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	resp, err := server.Client().Get(ctx, "/")
	if err != nil {
		t.Fatalf("Failed to get front page: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	csp := resp.Header.Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("Content-Security-Policy = %q, want default-src 'none'", csp)
	}
	if !strings.Contains(csp, "nonce-") {
		t.Errorf("Content-Security-Policy = %q, want a nonce", csp)
	}

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "deny",
		"Referrer-Policy":        "origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := resp.Header.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	if cache := resp.Header.Get("Cache-Control"); !strings.Contains(cache, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cache)
	}
}

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()

	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	resp, err := server.Client().Get(ctx, "/does-not-exist")
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
