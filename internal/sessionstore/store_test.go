package sessionstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/powerfulmoves/archon-tts/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenEphemeral(t *testing.T) {
	cfg := config.SessionStoreConfig{RetentionMode: "ephemeral"}
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	// Everything is a no-op without a database.
	if err := s.AppendUtterance(context.Background(), Utterance{SessionID: "s"}); err != nil {
		t.Fatalf("ephemeral append: %v", err)
	}
	utterances, err := s.ListSessionUtterances(context.Background(), "s", 10)
	if err != nil || utterances != nil {
		t.Fatalf("ephemeral list: %v %v", utterances, err)
	}
}

func TestAppendAndQuery(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.SessionStoreConfig{Path: filepath.Join(tmp, "tts.db"), RetentionMode: "session"}
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	sessionID := "session-123"
	if err := s.AppendSession(context.Background(), sessionID, "speaker"); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := s.AppendUtterance(context.Background(), Utterance{
		SessionID:  sessionID,
		Text:       "Hello! This is a test.",
		Chunks:     2,
		TTFSMS:     42,
		DurationMS: 1850.5,
		SampleRate: 24000,
	}); err != nil {
		t.Fatalf("append utterance: %v", err)
	}
	utterances, err := s.ListSessionUtterances(context.Background(), sessionID, 10)
	if err != nil {
		t.Fatalf("list utterances: %v", err)
	}
	if len(utterances) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(utterances))
	}
	u := utterances[0]
	if u.Text != "Hello! This is a test." || u.Chunks != 2 || u.TTFSMS != 42 {
		t.Fatalf("unexpected utterance: %+v", u)
	}
}

func TestPruneByDaysAndSessions(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.SessionStoreConfig{Path: filepath.Join(tmp, "tts.db"), RetentionMode: "persistent", RetentionDays: 1, MaxSessions: 1}
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	s.clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := s.AppendSession(context.Background(), "old-session", "speaker"); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := s.AppendUtterance(context.Background(), Utterance{SessionID: "old-session", Text: "stale"}); err != nil {
		t.Fatalf("append utterance: %v", err)
	}

	s.clock = func() time.Time { return time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := s.AppendSession(context.Background(), "new-session", "speaker"); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := s.Prune(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}

	utterances, err := s.ListSessionUtterances(context.Background(), "old-session", 10)
	if err != nil {
		t.Fatalf("list utterances: %v", err)
	}
	if len(utterances) != 0 {
		t.Fatal("expected old session pruned")
	}
}
