package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/foundry/pkg/web"
)

func testTemplateFS() fstest.MapFS {
	return fstest.MapFS{
		"layout/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "content" .}}{{end}}`),
		},
		"views/generate.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<main data-base="{{.BasePath}}">{{.Title}}</main>{{end}}`),
		},
	}
}

func TestNewTemplateSet(t *testing.T) {
	fsys := testTemplateFS()
	views := []web.ViewDef{
		{Route: "GET /{$}", Template: "generate.html", Title: "Generate", Bundle: "generate.js"},
	}

	if _, err := web.NewTemplateSet(fsys, fsys, "layout/*.html", "views", "/app", views); err != nil {
		t.Fatalf("NewTemplateSet failed: %v", err)
	}
}

func TestNewTemplateSetMissingView(t *testing.T) {
	fsys := testTemplateFS()
	views := []web.ViewDef{
		{Route: "GET /missing", Template: "missing.html", Title: "Missing"},
	}

	if _, err := web.NewTemplateSet(fsys, fsys, "layout/*.html", "views", "/app", views); err == nil {
		t.Fatal("expected error for missing view template")
	}
}

func TestPageHandler(t *testing.T) {
	fsys := testTemplateFS()
	view := web.ViewDef{Route: "GET /{$}", Template: "generate.html", Title: "Generate", Bundle: "generate.js"}

	ts, err := web.NewTemplateSet(fsys, fsys, "layout/*.html", "views", "/app", []web.ViewDef{view})
	if err != nil {
		t.Fatalf("NewTemplateSet failed: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ts.PageHandler("base", view)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Generate</title>") {
		t.Errorf("body missing rendered title: %s", body)
	}
	if !strings.Contains(body, `data-base="/app"`) {
		t.Errorf("body missing base path: %s", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	fsys := testTemplateFS()
	view := web.ViewDef{Route: "GET /{$}", Template: "generate.html", Title: "Generate"}

	ts, err := web.NewTemplateSet(fsys, fsys, "layout/*.html", "views", "/app", []web.ViewDef{view})
	if err != nil {
		t.Fatalf("NewTemplateSet failed: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, "base", "other.html", web.ViewData{}); err == nil {
		t.Fatal("expected error for unknown view path")
	}
}
