package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/akarvir/url-shortener/models"
	"github.com/akarvir/url-shortener/storage"
)

var codeRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

const testBaseURL = "http://sho.rt"

// collidingStore reports the next n existence checks as collisions before
// delegating to the wrapped store.
type collidingStore struct {
	storage.Store
	collisions int
}

func (s *collidingStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if s.collisions > 0 {
		s.collisions--
		return true, nil
	}
	return s.Store.CodeExists(ctx, code)
}

// flakyStore fails the next n existence checks before delegating.
type flakyStore struct {
	storage.Store
	failures int
}

func (s *flakyStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if s.failures > 0 {
		s.failures--
		return false, errors.New("connection reset")
	}
	return s.Store.CodeExists(ctx, code)
}

func TestGenerateShortCode(t *testing.T) {
	for _, length := range []int{6, 8} {
		code, err := generateShortCode(length)
		if err != nil {
			t.Fatalf("generateShortCode(%d) returned error: %v", length, err)
		}
		if len(code) != length {
			t.Errorf("expected length %d, got %d (%q)", length, len(code), code)
		}
		if !codeRe.MatchString(code) {
			t.Errorf("code %q contains characters outside the alphanumeric alphabet", code)
		}
	}
}

func TestShortenReturnsSixCharCode(t *testing.T) {
	svc := NewShortener(storage.NewMemoryStore())

	result, err := svc.Shorten(context.Background(), "https://example.com/page", testBaseURL)
	if err != nil {
		t.Fatalf("Shorten returned error: %v", err)
	}
	if len(result.ShortCode) != 6 || !codeRe.MatchString(result.ShortCode) {
		t.Errorf("expected 6-char alphanumeric code, got %q", result.ShortCode)
	}
	if result.ShortURL != testBaseURL+"/"+result.ShortCode {
		t.Errorf("expected short URL %q, got %q", testBaseURL+"/"+result.ShortCode, result.ShortURL)
	}
	if result.OriginalURL != "https://example.com/page" {
		t.Errorf("unexpected original URL %q", result.OriginalURL)
	}
}

func TestShortenIsIdempotentPerURL(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewShortener(store)
	ctx := context.Background()

	first, err := svc.Shorten(ctx, "https://example.com/page", testBaseURL)
	if err != nil {
		t.Fatalf("first Shorten returned error: %v", err)
	}
	second, err := svc.Shorten(ctx, "https://example.com/page", testBaseURL)
	if err != nil {
		t.Fatalf("second Shorten returned error: %v", err)
	}

	if first.ShortCode != second.ShortCode {
		t.Errorf("expected same code for same URL, got %q and %q", first.ShortCode, second.ShortCode)
	}

	links, err := store.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(links) != 1 {
		t.Errorf("expected exactly one record, got %d", len(links))
	}
}

func TestShortenRejectsInvalidURL(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewShortener(store)
	ctx := context.Background()

	for _, input := range []string{"", "not a url", "example.com"} {
		if _, err := svc.Shorten(ctx, input, testBaseURL); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Shorten(%q) error = %v, want ErrInvalidURL", input, err)
		}
	}

	links, err := store.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("invalid input must not create records, found %d", len(links))
	}
}

func TestShortenFallsBackToLongerCodeAfterCollisions(t *testing.T) {
	store := &collidingStore{Store: storage.NewMemoryStore(), collisions: 10}
	svc := NewShortener(store)

	result, err := svc.Shorten(context.Background(), "https://example.com/collide", testBaseURL)
	if err != nil {
		t.Fatalf("Shorten returned error: %v", err)
	}
	if len(result.ShortCode) != 8 {
		t.Errorf("expected 8-char fallback code after exhausted attempts, got %q", result.ShortCode)
	}
}

func TestShortenSkipsFailedExistenceChecks(t *testing.T) {
	store := &flakyStore{Store: storage.NewMemoryStore(), failures: 2}
	svc := NewShortener(store)

	result, err := svc.Shorten(context.Background(), "https://example.com/flaky", testBaseURL)
	if err != nil {
		t.Fatalf("Shorten returned error: %v", err)
	}
	if len(result.ShortCode) != 6 {
		t.Errorf("expected a 6-char code once checks recover, got %q", result.ShortCode)
	}
}

func TestShortenFallsBackWhenEveryCheckFails(t *testing.T) {
	store := &flakyStore{Store: storage.NewMemoryStore(), failures: 10}
	svc := NewShortener(store)

	result, err := svc.Shorten(context.Background(), "https://example.com/down", testBaseURL)
	if err != nil {
		t.Fatalf("Shorten returned error: %v", err)
	}
	if len(result.ShortCode) != 8 {
		t.Errorf("failed checks consume attempts; expected 8-char fallback, got %q", result.ShortCode)
	}
}

func TestResolveCountsClicks(t *testing.T) {
	svc := NewShortener(storage.NewMemoryStore())
	ctx := context.Background()

	result, err := svc.Shorten(ctx, "https://example.com/page", testBaseURL)
	if err != nil {
		t.Fatalf("Shorten returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		link, err := svc.Resolve(ctx, result.ShortCode)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if link.OriginalURL != "https://example.com/page" {
			t.Fatalf("Resolve returned wrong URL %q", link.OriginalURL)
		}
	}

	link, err := svc.Stats(ctx, result.ShortCode)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if link.ClickCount != 3 {
		t.Errorf("expected click_count 3 after 3 redirects, got %d", link.ClickCount)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	svc := NewShortener(storage.NewMemoryStore())

	if _, err := svc.Resolve(context.Background(), "zzzzzz"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Resolve(zzzzzz) error = %v, want ErrNotFound", err)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewShortener(store)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	codes := []string{"aaaaaa", "bbbbbb", "cccccc", "dddddd", "eeeeee"}
	for i, code := range codes {
		link := &models.ShortLink{
			OriginalURL: "https://example.com/" + code,
			ShortCode:   code,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Create(ctx, link); err != nil {
			t.Fatalf("Create(%s) returned error: %v", code, err)
		}
	}

	links, err := svc.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 records, got %d", len(links))
	}
	for i, want := range []string{"eeeeee", "dddddd", "cccccc"} {
		if links[i].ShortCode != want {
			t.Errorf("links[%d] = %q, want %q (newest first)", i, links[i].ShortCode, want)
		}
	}

	// Non-positive limit falls back to the default of 10.
	all, err := svc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(all) != len(codes) {
		t.Errorf("expected all %d records under the default limit, got %d", len(codes), len(all))
	}
}
