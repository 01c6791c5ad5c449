package routes

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/fittrack/fittrack-back/internal/config"
	"github.com/gofiber/fiber/v2"
)

//go:embed openapi.yaml
var openAPISpec []byte

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: Georgia, "Times New Roman", serif; color: #132019; background: #f6f7f4; }
    main { max-width: 960px; margin: 0 auto; padding: 48px 20px 64px; }
    a.button { display: inline-block; padding: 10px 16px; border-radius: 999px; background: #1f6f4a; color: #fff; text-decoration: none; }
    pre { padding: 20px; overflow: auto; border-radius: 14px; background: #0f172a; color: #e2e8f0; font-size: 0.9rem; }
  </style>
</head>
<body>
  <main>
    <h1>{{ .Title }}</h1>
    <p>The OpenAPI document is served from <code>/docs/openapi.yaml</code>. Docs are only exposed in development.</p>
    <p><a class="button" href="/docs/openapi.yaml">Open raw spec</a></p>
    <pre>{{ .Spec }}</pre>
  </main>
</body>
</html>
`

type docsPageData struct {
	Title string
	Spec  string
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, docsPageData{Title: "FitTrack API Docs", Spec: string(openAPISpec)}); err != nil {
		return fmt.Errorf("render docs page: %w", err)
	}
	rendered := page.Bytes()

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")
		return c.Status(fiber.StatusOK).Send(rendered)
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(openAPISpec)
	})

	return nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
