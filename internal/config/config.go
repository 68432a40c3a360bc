package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type NodeConfig struct {
	ID                string   `yaml:"id"`
	Role              string   `yaml:"role"`
	HeartbeatInterval int      `yaml:"heartbeat_interval_ms"`
	HeartbeatTimeout  int      `yaml:"heartbeat_timeout_ms"`
	Capabilities      []string `yaml:"capabilities"`
}

type SessionStoreConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"`
	RetentionDays int    `yaml:"retention_days"`
	MaxSessions   int    `yaml:"max_sessions"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type TTSConfig struct {
	Mode       string `yaml:"mode"` // mock, exec
	Command    string `yaml:"command"`
	Voice      string `yaml:"voice"`
	SampleRate int    `yaml:"sample_rate"`
}

type ProsodyConfig struct {
	FirstChunkWords          int `yaml:"first_chunk_words"`
	MaxSyllablesBeforeBreath int `yaml:"max_syllables_before_breath"`
	MinWordsPerChunk         int `yaml:"min_words_per_chunk"`
}

type StitchConfig struct {
	// FallbackFilter switches breath synthesis from the Butterworth
	// low-pass to the moving-average smoother.
	FallbackFilter bool   `yaml:"fallback_filter"`
	Seed           int64  `yaml:"seed"`
	Concurrency    int    `yaml:"max_concurrency"`
	DebugWAVDir    string `yaml:"debug_wav_dir"`
}

type ServiceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Target  string `yaml:"target"`
}

type Config struct {
	RuntimeName  string             `yaml:"runtime_name"`
	Environment  string             `yaml:"environment"`
	HTTP         HTTPConfig         `yaml:"http"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bus          BusConfig          `yaml:"bus"`
	Node         NodeConfig         `yaml:"node"`
	SessionStore SessionStoreConfig `yaml:"session_store"`
	TTS          TTSConfig          `yaml:"tts"`
	Prosody      ProsodyConfig      `yaml:"prosody"`
	Stitch       StitchConfig       `yaml:"stitch"`
	Service      ServiceConfig      `yaml:"service"`
}

func Default() Config {
	return Config{
		RuntimeName: "archon-ttsd",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Node: NodeConfig{
			ID:                "archon-tts-1",
			Role:              "tts-sidecar",
			HeartbeatInterval: 2000,
			HeartbeatTimeout:  6000,
			Capabilities:      []string{"tts.synthesize"},
		},
		SessionStore: SessionStoreConfig{
			Path:          "./data/archon-tts.db",
			RetentionMode: "session",
			RetentionDays: 30,
			MaxSessions:   10000,
		},
		TTS: TTSConfig{
			Mode:       "mock",
			SampleRate: 24000,
		},
		Prosody: ProsodyConfig{
			FirstChunkWords:          2,
			MaxSyllablesBeforeBreath: 10,
			MinWordsPerChunk:         2,
		},
		Stitch: StitchConfig{
			FallbackFilter: false,
			Seed:           0,
			Concurrency:    2,
		},
		Service: ServiceConfig{
			Enabled: true,
			Target:  "default",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "ARCHON_RUNTIME_NAME")
	overrideString(&cfg.Environment, "ARCHON_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "ARCHON_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "ARCHON_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "ARCHON_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "ARCHON_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "ARCHON_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "ARCHON_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "ARCHON_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "ARCHON_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "ARCHON_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "ARCHON_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "ARCHON_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "ARCHON_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "ARCHON_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "ARCHON_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Node.ID, "ARCHON_NODE_ID")
	overrideString(&cfg.Node.Role, "ARCHON_NODE_ROLE")
	overrideInt(&cfg.Node.HeartbeatInterval, "ARCHON_NODE_HEARTBEAT_INTERVAL_MS")
	overrideInt(&cfg.Node.HeartbeatTimeout, "ARCHON_NODE_HEARTBEAT_TIMEOUT_MS")
	overrideString(&cfg.SessionStore.Path, "ARCHON_SESSION_STORE_PATH")
	overrideString(&cfg.SessionStore.RetentionMode, "ARCHON_SESSION_STORE_RETENTION_MODE")
	overrideInt(&cfg.SessionStore.RetentionDays, "ARCHON_SESSION_STORE_RETENTION_DAYS")
	overrideInt(&cfg.SessionStore.MaxSessions, "ARCHON_SESSION_STORE_MAX_SESSIONS")
	overrideBool(&cfg.SessionStore.VacuumOnStart, "ARCHON_SESSION_STORE_VACUUM_ON_START")
	overrideString(&cfg.TTS.Mode, "ARCHON_TTS_MODE")
	overrideString(&cfg.TTS.Command, "ARCHON_TTS_COMMAND")
	overrideString(&cfg.TTS.Voice, "ARCHON_TTS_VOICE")
	overrideInt(&cfg.TTS.SampleRate, "ARCHON_TTS_SAMPLE_RATE")
	overrideInt(&cfg.Prosody.FirstChunkWords, "ARCHON_PROSODY_FIRST_CHUNK_WORDS")
	overrideInt(&cfg.Prosody.MaxSyllablesBeforeBreath, "ARCHON_PROSODY_MAX_SYLLABLES_BEFORE_BREATH")
	overrideInt(&cfg.Prosody.MinWordsPerChunk, "ARCHON_PROSODY_MIN_WORDS_PER_CHUNK")
	overrideBool(&cfg.Stitch.FallbackFilter, "ARCHON_STITCH_FALLBACK_FILTER")
	overrideInt64(&cfg.Stitch.Seed, "ARCHON_STITCH_SEED")
	overrideInt(&cfg.Stitch.Concurrency, "ARCHON_STITCH_MAX_CONCURRENCY")
	overrideString(&cfg.Stitch.DebugWAVDir, "ARCHON_STITCH_DEBUG_WAV_DIR")
	overrideBool(&cfg.Service.Enabled, "ARCHON_SERVICE_ENABLED")
	overrideString(&cfg.Service.Target, "ARCHON_SERVICE_TARGET")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideInt64(target *int64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.Node.ID == "" {
		return errors.New("node.id must not be empty")
	}
	if cfg.Node.HeartbeatInterval <= 0 {
		return errors.New("node.heartbeat_interval_ms must be positive")
	}
	if cfg.Node.HeartbeatTimeout <= cfg.Node.HeartbeatInterval {
		return errors.New("node.heartbeat_timeout_ms must be greater than heartbeat interval")
	}
	if cfg.SessionStore.Path == "" {
		return errors.New("session_store.path must not be empty")
	}
	switch cfg.SessionStore.RetentionMode {
	case "ephemeral", "session", "persistent":
		// ok
	default:
		return errors.New("session_store.retention_mode must be one of ephemeral|session|persistent")
	}
	if cfg.SessionStore.RetentionDays < 0 {
		return errors.New("session_store.retention_days must be >= 0")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	switch cfg.TTS.Mode {
	case "mock", "exec":
	default:
		return errors.New("tts.mode must be one of mock|exec")
	}
	if cfg.TTS.Mode == "exec" && cfg.TTS.Command == "" {
		return errors.New("tts.command must be set when mode=exec")
	}
	if cfg.TTS.SampleRate <= 0 {
		return errors.New("tts.sample_rate must be positive")
	}
	if cfg.Prosody.FirstChunkWords <= 0 {
		return errors.New("prosody.first_chunk_words must be >= 1")
	}
	if cfg.Prosody.MaxSyllablesBeforeBreath <= 0 {
		return errors.New("prosody.max_syllables_before_breath must be >= 1")
	}
	if cfg.Prosody.MinWordsPerChunk <= 0 {
		return errors.New("prosody.min_words_per_chunk must be >= 1")
	}
	if cfg.Stitch.Concurrency <= 0 {
		return errors.New("stitch.max_concurrency must be >= 1")
	}
	return nil
}
