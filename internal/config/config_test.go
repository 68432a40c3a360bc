package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.TTS.Mode != "mock" {
		t.Fatalf("expected mock tts mode, got %q", cfg.TTS.Mode)
	}
	if cfg.Prosody.FirstChunkWords != 2 {
		t.Fatalf("expected first_chunk_words 2, got %d", cfg.Prosody.FirstChunkWords)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archon.yaml")
	data := []byte(`
tts:
  mode: mock
  sample_rate: 22050
prosody:
  first_chunk_words: 3
stitch:
  fallback_filter: true
  seed: 42
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TTS.SampleRate != 22050 {
		t.Fatalf("expected sample rate override, got %d", cfg.TTS.SampleRate)
	}
	if cfg.Prosody.FirstChunkWords != 3 {
		t.Fatalf("expected first_chunk_words override, got %d", cfg.Prosody.FirstChunkWords)
	}
	if !cfg.Stitch.FallbackFilter || cfg.Stitch.Seed != 42 {
		t.Fatalf("expected stitch overrides, got %+v", cfg.Stitch)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARCHON_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("ARCHON_BUS_USERNAME", "alice")
	t.Setenv("ARCHON_BUS_PASSWORD", "secret")
	t.Setenv("ARCHON_TTS_SAMPLE_RATE", "16000")
	t.Setenv("ARCHON_PROSODY_MAX_SYLLABLES_BEFORE_BREATH", "14")
	t.Setenv("ARCHON_STITCH_SEED", "1234567890123")
	t.Setenv("ARCHON_NODE_ID", "test-node")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatal("expected credentials override")
	}
	if cfg.TTS.SampleRate != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", cfg.TTS.SampleRate)
	}
	if cfg.Prosody.MaxSyllablesBeforeBreath != 14 {
		t.Fatalf("expected syllable budget override, got %d", cfg.Prosody.MaxSyllablesBeforeBreath)
	}
	if cfg.Stitch.Seed != 1234567890123 {
		t.Fatalf("expected seed override, got %d", cfg.Stitch.Seed)
	}
	if cfg.Node.ID != "test-node" {
		t.Fatal("expected node id override")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.TTS.Mode = "exec"
	cfg.TTS.Command = ""
	if err := validate(cfg); err == nil {
		t.Fatal("expected error for exec mode without command")
	}

	cfg = Default()
	cfg.Prosody.FirstChunkWords = 0
	if err := validate(cfg); err == nil {
		t.Fatal("expected error for zero first_chunk_words")
	}

	cfg = Default()
	cfg.SessionStore.RetentionMode = "forever"
	if err := validate(cfg); err == nil {
		t.Fatal("expected error for bad retention mode")
	}
}
