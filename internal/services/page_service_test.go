package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagebin/pagebin/config"
	"github.com/pagebin/pagebin/internal/assets"
	"github.com/pagebin/pagebin/internal/expiry"
	"github.com/pagebin/pagebin/storage"
)

func newTestService(t *testing.T) (*PageService, *config.Config) {
	t.Helper()

	workRoot := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(workRoot, "pages")
	cfg.UploadDir = filepath.Join(workRoot, "uploads")

	store, err := storage.NewFilesystemStore(cfg.DataDir)
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	engine := expiry.NewEngine(store, assets.NewResolver(workRoot, cfg.UploadDir))
	return NewPageService(store, engine, cfg), cfg
}

func TestCreatePage(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.CreatePage(CreatePageRequest{
		HTML: "<h1>hi</h1>",
		TTL:  60 * time.Second,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	if len(resp.Slug) != 8 {
		t.Errorf("slug length = %d, want 8", len(resp.Slug))
	}
	if resp.Path != "/p/"+resp.Slug {
		t.Errorf("path = %q, want /p/%s", resp.Path, resp.Slug)
	}
	if resp.TTL != 60*time.Second {
		t.Errorf("ttl = %v, want 60s", resp.TTL)
	}

	// Immediate read returns the content byte-for-byte with remaining in (0, 60s].
	page, remaining, err := svc.GetPage(resp.Slug)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.Content != "<h1>hi</h1>" {
		t.Errorf("content = %q, want original", page.Content)
	}
	if remaining <= 0 || remaining > 60*time.Second {
		t.Errorf("remaining = %v, want in (0, 60s]", remaining)
	}
	if page.Assets == nil || len(page.Assets) != 0 {
		t.Errorf("assets = %v, want empty non-nil list", page.Assets)
	}
}

func TestCreatePagePreservesAssetOrder(t *testing.T) {
	svc, _ := newTestService(t)

	refs := []string{"/uploads/z.png", "/uploads/a.png", "/uploads/m.gif"}
	resp, err := svc.CreatePage(CreatePageRequest{HTML: "<p>x</p>", Assets: refs})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	page, _, err := svc.GetPage(resp.Slug)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if len(page.Assets) != len(refs) {
		t.Fatalf("assets length = %d, want %d", len(page.Assets), len(refs))
	}
	for i := range refs {
		if page.Assets[i] != refs[i] {
			t.Errorf("assets[%d] = %q, want %q", i, page.Assets[i], refs[i])
		}
	}
}

func TestCreatePageDefaultTTL(t *testing.T) {
	svc, cfg := newTestService(t)

	resp, err := svc.CreatePage(CreatePageRequest{HTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if resp.TTL != cfg.DefaultTTL {
		t.Errorf("ttl = %v, want default %v", resp.TTL, cfg.DefaultTTL)
	}
}

func TestCreatePageTTLBounds(t *testing.T) {
	svc, cfg := newTestService(t)

	tests := []struct {
		name string
		ttl  time.Duration
		ok   bool
	}{
		{"at minimum", cfg.MinTTL, true},
		{"at maximum", cfg.MaxTTL, true},
		{"below minimum", cfg.MinTTL - time.Second, false},
		{"above maximum", cfg.MaxTTL + time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePage(CreatePageRequest{HTML: "<p>x</p>", TTL: tt.ttl})
			if tt.ok && err != nil {
				t.Errorf("CreatePage: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTTL) {
				t.Errorf("CreatePage error = %v, want ErrInvalidTTL", err)
			}
		})
	}
}

func TestCreatePageEmptyContent(t *testing.T) {
	svc, _ := newTestService(t)

	for _, html := range []string{"", "   \n\t"} {
		if _, err := svc.CreatePage(CreatePageRequest{HTML: html}); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("CreatePage(%q) error = %v, want ErrEmptyContent", html, err)
		}
	}
}

func TestCreatePageSlugsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.CreatePage(CreatePageRequest{HTML: "<p>1</p>"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	second, err := svc.CreatePage(CreatePageRequest{HTML: "<p>2</p>"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if first.Slug == second.Slug {
		t.Errorf("back-to-back creates produced the same slug %q", first.Slug)
	}
}

func TestGetPageNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.GetPage("neverwas"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPage error = %v, want ErrNotFound", err)
	}
}

func TestGetPageExpiredThenNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	// Freeze creation in the past so the page is born expired from the
	// reader's point of view.
	base := time.Now().Add(-2 * time.Minute)
	svc.timeNow = func() time.Time { return base }

	resp, err := svc.CreatePage(CreatePageRequest{HTML: "<p>x</p>", TTL: time.Minute})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	// First read observes the expiry and deletes.
	svc.timeNow = time.Now
	if _, _, err := svc.GetPage(resp.Slug); !errors.Is(err, expiry.ErrExpired) {
		t.Fatalf("first GetPage error = %v, want ErrExpired", err)
	}

	// Second read: the record no longer exists.
	if _, _, err := svc.GetPage(resp.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("second GetPage error = %v, want ErrNotFound", err)
	}
}
