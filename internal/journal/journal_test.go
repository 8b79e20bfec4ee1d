package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nepcorpus/nepcrawl/internal/model"
)

const testTarget = "https://www.example.com.np"

// setupTestJournal creates a temporary journal for testing.
func setupTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(t.TempDir(), testTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})

	return j
}

// TestOpen tests journal opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		j, err := Open(dir, testTarget, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open journal: %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dir, "nepcrawl.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nonexistent")
		opts := Options{CreateIfNotExists: false, EnableWAL: true}

		_, err := Open(dir, testTarget, opts)
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "journal not found") {
			t.Errorf("expected error to mention missing journal, got %q", err.Error())
		}
		if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
			t.Error("journal directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "existing")
		j1, err := Open(dir, testTarget, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create journal: %v", err)
		}

		ctx := context.Background()
		rec := model.PageRecord{
			URL:       testTarget + "/news/1",
			Depth:     1,
			CrawledAt: time.Now(),
			Accepted:  true,
			Artifact:  "page_1.txt",
			TextChars: 420,
		}
		if err := j1.RecordPage(ctx, rec); err != nil {
			t.Fatalf("failed to record page: %v", err)
		}
		j1.Close()

		j2, err := Open(dir, testTarget, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing journal: %v", err)
		}
		defer j2.Close()

		got, err := j2.Page(ctx, rec.URL)
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if got == nil {
			t.Fatal("page not found after reopen")
		}
		if got.Artifact != "page_1.txt" {
			t.Errorf("Artifact = %q, want page_1.txt", got.Artifact)
		}
	})
}

// TestRecordPage tests page insertion, retrieval, and upsert semantics.
func TestRecordPage(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves fields", func(t *testing.T) {
		t.Parallel()

		j := setupTestJournal(t)
		ctx := context.Background()

		rec := model.PageRecord{
			URL:       testTarget + "/2024/article",
			Depth:     3,
			CrawledAt: time.Date(2025, 6, 1, 10, 30, 0, 123_000_000, time.UTC),
			Accepted:  true,
			Artifact:  "page_7.txt",
			TextChars: 1532,
		}
		if err := j.RecordPage(ctx, rec); err != nil {
			t.Fatalf("RecordPage() error = %v", err)
		}

		got, err := j.Page(ctx, rec.URL)
		if err != nil {
			t.Fatalf("Page() error = %v", err)
		}
		if got == nil {
			t.Fatal("Page() = nil, want record")
		}
		if got.URL != rec.URL || got.Depth != rec.Depth {
			t.Errorf("got (%q, %d), want (%q, %d)", got.URL, got.Depth, rec.URL, rec.Depth)
		}
		if !got.Accepted || got.Artifact != rec.Artifact || got.TextChars != rec.TextChars {
			t.Errorf("got %+v, want %+v", got, rec)
		}
		if !got.CrawledAt.Equal(rec.CrawledAt) {
			t.Errorf("CrawledAt = %v, want %v", got.CrawledAt, rec.CrawledAt)
		}
		if got.Note != "" {
			t.Errorf("Note = %q, want empty", got.Note)
		}
	})

	t.Run("upsert replaces the row for the same URL", func(t *testing.T) {
		t.Parallel()

		j := setupTestJournal(t)
		ctx := context.Background()
		url := testTarget + "/2024/retry"

		first := model.PageRecord{
			URL:       url,
			Depth:     2,
			CrawledAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Note:      "fetch: connection refused",
		}
		if err := j.RecordPage(ctx, first); err != nil {
			t.Fatalf("RecordPage(first) error = %v", err)
		}

		second := model.PageRecord{
			URL:       url,
			Depth:     2,
			CrawledAt: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
			Accepted:  true,
			Artifact:  "page_3.txt",
			TextChars: 900,
		}
		if err := j.RecordPage(ctx, second); err != nil {
			t.Fatalf("RecordPage(second) error = %v", err)
		}

		got, err := j.Page(ctx, url)
		if err != nil {
			t.Fatalf("Page() error = %v", err)
		}
		if !got.Accepted || got.Note != "" {
			t.Errorf("row not replaced: %+v", got)
		}

		total, accepted, err := j.Counts(ctx)
		if err != nil {
			t.Fatalf("Counts() error = %v", err)
		}
		if total != 1 || accepted != 1 {
			t.Errorf("Counts() = (%d, %d), want (1, 1)", total, accepted)
		}
	})

	t.Run("unknown URL yields nil without error", func(t *testing.T) {
		t.Parallel()

		j := setupTestJournal(t)
		got, err := j.Page(context.Background(), testTarget+"/never-crawled")
		if err != nil {
			t.Fatalf("Page() error = %v", err)
		}
		if got != nil {
			t.Errorf("Page() = %+v, want nil", got)
		}
	})
}

// TestRecentPages tests ordering and limit of the page history.
func TestRecentPages(t *testing.T) {
	t.Parallel()

	j := setupTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, suffix := range []string{"a", "b", "c"} {
		rec := model.PageRecord{
			URL:       testTarget + "/2024/" + suffix,
			Depth:     1,
			CrawledAt: base.Add(time.Duration(i) * time.Minute),
			Accepted:  i%2 == 0,
			TextChars: 100 * (i + 1),
		}
		if err := j.RecordPage(ctx, rec); err != nil {
			t.Fatalf("RecordPage() error = %v", err)
		}
	}

	got, err := j.RecentPages(ctx, 2)
	if err != nil {
		t.Fatalf("RecentPages() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RecentPages() returned %d rows, want 2", len(got))
	}
	if got[0].URL != testTarget+"/2024/c" || got[1].URL != testTarget+"/2024/b" {
		t.Errorf("order = [%s, %s], want [c, b]", got[0].URL, got[1].URL)
	}
}

// TestCounts tests accepted vs total accounting.
func TestCounts(t *testing.T) {
	t.Parallel()

	j := setupTestJournal(t)
	ctx := context.Background()

	pages := []model.PageRecord{
		{URL: testTarget + "/1", Depth: 1, Accepted: true, Artifact: "page_1.txt"},
		{URL: testTarget + "/2", Depth: 1},
		{URL: testTarget + "/3", Depth: 2, Accepted: true, Artifact: "page_2.txt"},
		{URL: testTarget + "/4", Depth: 2, Note: "fetch: timeout"},
	}
	for _, rec := range pages {
		if err := j.RecordPage(ctx, rec); err != nil {
			t.Fatalf("RecordPage() error = %v", err)
		}
	}

	total, accepted, err := j.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if total != 4 || accepted != 2 {
		t.Errorf("Counts() = (%d, %d), want (4, 2)", total, accepted)
	}
}

// TestSessions tests session summary recording and retrieval.
func TestSessions(t *testing.T) {
	t.Parallel()

	t.Run("no sessions yields nil without error", func(t *testing.T) {
		t.Parallel()

		j := setupTestJournal(t)
		got, err := j.LastSession(context.Background())
		if err != nil {
			t.Fatalf("LastSession() error = %v", err)
		}
		if got != nil {
			t.Errorf("LastSession() = %+v, want nil", got)
		}
	})

	t.Run("latest session wins", func(t *testing.T) {
		t.Parallel()

		j := setupTestJournal(t)
		ctx := context.Background()

		first := model.CrawlSummary{
			Target:       testTarget,
			StopReason:   "stop requested",
			PagesSaved:   40,
			MaxPages:     150,
			PagesCrawled: 90,
			Elapsed:      3 * time.Minute,
		}
		if err := j.RecordSession(ctx, first); err != nil {
			t.Fatalf("RecordSession(first) error = %v", err)
		}

		second := model.CrawlSummary{
			Target:       testTarget,
			StopReason:   "page budget reached",
			PagesSaved:   150,
			MaxPages:     150,
			PagesCrawled: 310,
			Elapsed:      11 * time.Minute,
		}
		if err := j.RecordSession(ctx, second); err != nil {
			t.Fatalf("RecordSession(second) error = %v", err)
		}

		got, err := j.LastSession(ctx)
		if err != nil {
			t.Fatalf("LastSession() error = %v", err)
		}
		if got == nil {
			t.Fatal("LastSession() = nil, want summary")
		}
		if got.StopReason != second.StopReason || got.PagesSaved != second.PagesSaved {
			t.Errorf("LastSession() = %+v, want %+v", got, second)
		}
	})
}
