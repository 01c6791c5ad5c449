package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fittrack/fittrack-back/internal/config"
	"github.com/gofiber/fiber/v2"
)

func TestRegisterDocsRoutesServesDocsPageAndSpec(t *testing.T) {
	app := fiber.New()
	cfg := &config.Config{AppEnv: "development", EnableDocs: true}

	if err := registerDocsRoutes(app, cfg); err != nil {
		t.Fatalf("registerDocsRoutes: %v", err)
	}

	pageResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	if err != nil {
		t.Fatalf("app.Test docs page: %v", err)
	}
	defer pageResp.Body.Close()

	if pageResp.StatusCode != http.StatusOK {
		t.Fatalf("expected docs page status 200, got %d", pageResp.StatusCode)
	}
	if got := pageResp.Header.Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Fatalf("expected restrictive CSP, got %q", got)
	}

	specResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	if err != nil {
		t.Fatalf("app.Test docs spec: %v", err)
	}
	defer specResp.Body.Close()

	if specResp.StatusCode != http.StatusOK {
		t.Fatalf("expected docs spec status 200, got %d", specResp.StatusCode)
	}
	if got := specResp.Header.Get(fiber.HeaderContentType); !strings.Contains(got, "application/yaml") {
		t.Fatalf("expected yaml content type, got %q", got)
	}
	body, _ := io.ReadAll(specResp.Body)
	if !strings.Contains(string(body), "/api/buddy/matches") {
		t.Fatalf("expected spec to document the buddy routes")
	}
}

func TestRegisterDocsRoutesSkipsWhenDisabled(t *testing.T) {
	app := fiber.New()
	cfg := &config.Config{AppEnv: "production", EnableDocs: true}

	if err := registerDocsRoutes(app, cfg); err != nil {
		t.Fatalf("registerDocsRoutes: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when docs are not in development, got %d", resp.StatusCode)
	}
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthReportsMongoStatus(t *testing.T) {
	cases := map[string]struct {
		pinger pinger
		want   string
	}{
		"disabled":     {nil, "disabled"},
		"connected":    {stubPinger{}, "connected"},
		"disconnected": {stubPinger{err: errors.New("down")}, "disconnected"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", healthHandler(tc.pinger))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if body["status"] != "ok" || body["mongodb"] != tc.want {
				t.Fatalf("unexpected health body: %+v", body)
			}
		})
	}
}
