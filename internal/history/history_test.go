package history

import (
	"context"
	"testing"

	"snapgrab/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := media.HistoryEntry{
		SourceURL: "https://www.instagram.com/p/Cxyz123/",
		Platform:  "instagram",
		Type:      media.Video,
		File:      "/home/user/Downloads/snapgrab/v720.mp4",
	}
	second := media.HistoryEntry{
		SourceURL: "https://www.tiktok.com/@user/photo/712345",
		Platform:  "tiktok",
		Type:      media.Image,
		File:      "/home/user/Downloads/snapgrab/photo.jpg",
	}

	id1, err := s.Add(ctx, first)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := s.Add(ctx, second)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first.
	if entries[0].SourceURL != second.SourceURL {
		t.Errorf("first listed = %q, want newest", entries[0].SourceURL)
	}
	if entries[0].Type != media.Image || entries[1].Type != media.Video {
		t.Errorf("types mangled: %q, %q", entries[0].Type, entries[1].Type)
	}
	if entries[1].Platform != "instagram" {
		t.Errorf("platform = %q", entries[1].Platform)
	}
	if entries[0].SavedAt == "" {
		t.Error("SavedAt not populated")
	}
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("fresh store has %d entries", len(entries))
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, media.HistoryEntry{
		SourceURL: "https://fb.watch/abc/",
		Platform:  "facebook",
		Type:      media.Video,
		File:      "/tmp/v.mp4",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after Clear", len(entries))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Add(ctx, media.HistoryEntry{
		SourceURL: "https://www.instagram.com/reel/Cabc/",
		Platform:  "instagram",
		Type:      media.Video,
		File:      "/tmp/reel.mp4",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s2.Close()

	entries, err := s2.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries after reopen, want 1", len(entries))
	}
}
