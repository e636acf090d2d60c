package projects_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/internal/projects"
	"github.com/JaimeStill/foundry/pkg/pagination"
	"github.com/JaimeStill/foundry/pkg/storage"
)

type mockSystem struct {
	listFn         func(ctx context.Context, page pagination.PageRequest, filters projects.Filters) (*pagination.PageResult[projects.Project], error)
	findFn         func(ctx context.Context, id uuid.UUID) (*projects.Project, error)
	findBySlugFn   func(ctx context.Context, slug string) (*projects.Project, error)
	saveFn         func(ctx context.Context, cmd projects.SaveCommand) (*projects.Project, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	downloadFileFn func(ctx context.Context, id uuid.UUID, filename string) (*storage.DownloadResult, error)
	archiveFn      func(ctx context.Context, id uuid.UUID) (*projects.ArchiveResult, error)
}

func (m *mockSystem) Handler() *projects.Handler {
	return projects.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters projects.Filters) (*pagination.PageResult[projects.Project], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) FindBySlug(ctx context.Context, slug string) (*projects.Project, error) {
	return m.findBySlugFn(ctx, slug)
}

func (m *mockSystem) Save(ctx context.Context, cmd projects.SaveCommand) (*projects.Project, error) {
	return m.saveFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) DownloadFile(ctx context.Context, id uuid.UUID, filename string) (*storage.DownloadResult, error) {
	return m.downloadFileFn(ctx, id, filename)
}

func (m *mockSystem) Archive(ctx context.Context, id uuid.UUID) (*projects.ArchiveResult, error) {
	return m.archiveFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *projects.Handler {
	return projects.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *projects.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleProject() projects.Project {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	created := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	return projects.Project{
		ID:          id,
		Name:        "Research Assistant",
		Slug:        "research-assistant",
		Description: "Multi-agent research pipeline.",
		CreatedAt:   created,
		UpdatedAt:   created,
		Files: []projects.File{
			{
				ID:          uuid.MustParse("650e8400-e29b-41d4-a716-446655440001"),
				ProjectID:   id,
				Filename:    "agents.py",
				ContentType: "text/x-python",
				Size:        10,
				CreatedAt:   created,
			},
		},
	}
}

func TestHandlerList(t *testing.T) {
	p := sampleProject()
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, _ projects.Filters) (*pagination.PageResult[projects.Project], error) {
			result := pagination.NewPageResult([]projects.Project{p}, 1, 1, 20)
			return &result, nil
		},
	}

	mux := setupMux(newTestHandler(sys))

	t.Run("returns paginated list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[projects.Project]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if result.Total != 1 {
			t.Errorf("total = %d, want 1", result.Total)
		}
		if len(result.Data) != 1 {
			t.Fatalf("data length = %d, want 1", len(result.Data))
		}
		if result.Data[0].Slug != "research-assistant" {
			t.Errorf("slug = %q, want research-assistant", result.Data[0].Slug)
		}
	})

	t.Run("passes query filters", func(t *testing.T) {
		var captured projects.Filters
		sys.listFn = func(_ context.Context, _ pagination.PageRequest, f projects.Filters) (*pagination.PageResult[projects.Project], error) {
			captured = f
			result := pagination.NewPageResult([]projects.Project{}, 0, 1, 20)
			return &result, nil
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects?name=research&slug=assistant", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Name == nil || *captured.Name != "research" {
			t.Errorf("name filter = %v, want research", captured.Name)
		}
		if captured.Slug == nil || *captured.Slug != "assistant" {
			t.Errorf("slug filter = %v, want assistant", captured.Slug)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	p := sampleProject()

	t.Run("returns project by id", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*projects.Project, error) {
				if id != p.ID {
					return nil, projects.ErrNotFound
				}
				return &p, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+p.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got projects.Project
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != p.ID {
			t.Errorf("id = %v, want %v", got.ID, p.ID)
		}
		if len(got.Files) != 1 {
			t.Errorf("files length = %d, want 1", len(got.Files))
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing project returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*projects.Project, error) {
				return nil, projects.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+uuid.NewString(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerFindBySlug(t *testing.T) {
	p := sampleProject()

	t.Run("returns project by slug", func(t *testing.T) {
		var capturedSlug string
		sys := &mockSystem{
			findBySlugFn: func(_ context.Context, slug string) (*projects.Project, error) {
				capturedSlug = slug
				return &p, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/slug/research-assistant", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedSlug != "research-assistant" {
			t.Errorf("slug = %q, want research-assistant", capturedSlug)
		}

		var got projects.Project
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Name != "Research Assistant" {
			t.Errorf("name = %q, want Research Assistant", got.Name)
		}
	})

	t.Run("missing slug returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findBySlugFn: func(_ context.Context, _ string) (*projects.Project, error) {
				return nil, projects.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/slug/ghost", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	p := sampleProject()

	t.Run("returns filtered results", func(t *testing.T) {
		var capturedFilters projects.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f projects.Filters) (*pagination.PageResult[projects.Project], error) {
				capturedFilters = f
				result := pagination.NewPageResult([]projects.Project{p}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(projects.SearchRequest{
			PageRequest: pagination.PageRequest{Page: 1, PageSize: 20},
			Filters:     projects.Filters{Name: ptr("research")},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedFilters.Name == nil || *capturedFilters.Name != "research" {
			t.Errorf("name filter = %v, want research", capturedFilters.Name)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects/search", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("normalizes pagination", func(t *testing.T) {
		var capturedPage pagination.PageRequest
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, _ projects.Filters) (*pagination.PageResult[projects.Project], error) {
				capturedPage = page
				result := pagination.NewPageResult([]projects.Project{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(projects.SearchRequest{
			PageRequest: pagination.PageRequest{Page: 0, PageSize: 0},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedPage.Page != 1 {
			t.Errorf("page = %d, want 1 (normalized)", capturedPage.Page)
		}
		if capturedPage.PageSize != 20 {
			t.Errorf("page_size = %d, want 20 (default)", capturedPage.PageSize)
		}
	})
}

func TestHandlerSave(t *testing.T) {
	p := sampleProject()

	t.Run("saves project from json body", func(t *testing.T) {
		var capturedCmd projects.SaveCommand
		sys := &mockSystem{
			saveFn: func(_ context.Context, cmd projects.SaveCommand) (*projects.Project, error) {
				capturedCmd = cmd
				return &p, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(projects.SaveCommand{
			Name:        "Research Assistant",
			Description: "Multi-agent research pipeline.",
			Files: map[string]string{
				"agents.py": "import os\n",
				"README.md": "# Research Assistant\n",
			},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedCmd.Name != "Research Assistant" {
			t.Errorf("name = %q, want Research Assistant", capturedCmd.Name)
		}
		if len(capturedCmd.Files) != 2 {
			t.Errorf("files length = %d, want 2", len(capturedCmd.Files))
		}
		if capturedCmd.Files["agents.py"] != "import os\n" {
			t.Errorf("agents.py content = %q, want import os", capturedCmd.Files["agents.py"])
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("empty file set returns 400", func(t *testing.T) {
		sys := &mockSystem{
			saveFn: func(_ context.Context, _ projects.SaveCommand) (*projects.Project, error) {
				return nil, projects.ErrNoFiles
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(projects.SaveCommand{Name: "Empty"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unusable name returns 400", func(t *testing.T) {
		sys := &mockSystem{
			saveFn: func(_ context.Context, _ projects.SaveCommand) (*projects.Project, error) {
				return nil, projects.ErrInvalidName
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(projects.SaveCommand{
			Name:  "!!!",
			Files: map[string]string{"main.py": "print('hi')\n"},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/projects", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerDownloadFile(t *testing.T) {
	p := sampleProject()

	t.Run("streams file with headers", func(t *testing.T) {
		var capturedID uuid.UUID
		var capturedFilename string
		sys := &mockSystem{
			downloadFileFn: func(_ context.Context, id uuid.UUID, filename string) (*storage.DownloadResult, error) {
				capturedID = id
				capturedFilename = filename
				return &storage.DownloadResult{
					Body:          io.NopCloser(strings.NewReader("import os\n")),
					ContentType:   "text/x-python",
					ContentLength: 10,
				}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+p.ID.String()+"/files/agents.py", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedID != p.ID {
			t.Errorf("id = %v, want %v", capturedID, p.ID)
		}
		if capturedFilename != "agents.py" {
			t.Errorf("filename = %q, want agents.py", capturedFilename)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/x-python" {
			t.Errorf("Content-Type = %q, want text/x-python", got)
		}
		if got := rec.Header().Get("Content-Length"); got != "10" {
			t.Errorf("Content-Length = %q, want 10", got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="agents.py"` {
			t.Errorf("Content-Disposition = %q", got)
		}
		if rec.Body.String() != "import os\n" {
			t.Errorf("body = %q, want file content", rec.Body.String())
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/not-a-uuid/files/agents.py", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing file returns 404", func(t *testing.T) {
		sys := &mockSystem{
			downloadFileFn: func(_ context.Context, _ uuid.UUID, _ string) (*storage.DownloadResult, error) {
				return nil, projects.ErrFileNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+p.ID.String()+"/files/ghost.py", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerArchive(t *testing.T) {
	p := sampleProject()

	t.Run("streams zip archive", func(t *testing.T) {
		data := []byte("fake zip bytes")
		sys := &mockSystem{
			archiveFn: func(_ context.Context, id uuid.UUID) (*projects.ArchiveResult, error) {
				if id != p.ID {
					return nil, projects.ErrNotFound
				}
				return &projects.ArchiveResult{
					Filename: "research-assistant.zip",
					Data:     data,
				}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+p.ID.String()+"/archive", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/zip" {
			t.Errorf("Content-Type = %q, want application/zip", got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="research-assistant.zip"` {
			t.Errorf("Content-Disposition = %q", got)
		}
		if !bytes.Equal(rec.Body.Bytes(), data) {
			t.Errorf("body = %q, want archive bytes", rec.Body.Bytes())
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/not-a-uuid/archive", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing project returns 404", func(t *testing.T) {
		sys := &mockSystem{
			archiveFn: func(_ context.Context, _ uuid.UUID) (*projects.ArchiveResult, error) {
				return nil, projects.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/projects/"+uuid.NewString()+"/archive", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	p := sampleProject()

	t.Run("deletes project", func(t *testing.T) {
		var capturedID uuid.UUID
		sys := &mockSystem{
			deleteFn: func(_ context.Context, id uuid.UUID) error {
				capturedID = id
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/projects/"+p.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if capturedID != p.ID {
			t.Errorf("id = %v, want %v", capturedID, p.ID)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/projects/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing project returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error {
				return projects.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/projects/"+uuid.NewString(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	h := newTestHandler(sys)
	group := h.Routes()

	if group.Prefix != "/projects" {
		t.Errorf("prefix = %q, want /projects", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", ""},
		{"GET", "/slug/{slug}"},
		{"GET", "/{id}"},
		{"GET", "/{id}/archive"},
		{"GET", "/{id}/files/{filename}"},
		{"POST", ""},
		{"POST", "/search"},
		{"DELETE", "/{id}"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
	}
}
