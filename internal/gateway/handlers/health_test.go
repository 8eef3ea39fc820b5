package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func probe(t *testing.T, upstream string) int {
	t.Helper()

	app := fiber.New()
	app.Get("/health/ready", ReadinessProbe(upstream))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil),
		fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestReadinessProbe(t *testing.T) {
	ready := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ready.Close()

	if code := probe(t, ready.URL+"/"); code != http.StatusOK {
		t.Errorf("ready upstream: status %d", code)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	if code := probe(t, failing.URL); code != http.StatusServiceUnavailable {
		t.Errorf("failing upstream: status %d", code)
	}
}
