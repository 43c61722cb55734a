package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthortrap/trap-server-go/internal/game"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "DATABASE_URL", "TRAP_GAME_LANGUAGE", "TRAP_STORAGE_DRIVER"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTP.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.HTTP.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, game.LanguageCN, cfg.Language())
	assert.Equal(t, game.DifficultyNormal, cfg.Difficulty())
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.PickDelay)
	assert.Equal(t, SourceEmbedded, cfg.Challenges.Source)
	assert.False(t, cfg.Challenges.AI.Enabled)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, game.SnapshotKey, cfg.Storage.SnapshotKey)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  http:
    address: ":9090"
logging:
  level: debug
  format: json
game:
  language: my
  difficulty: EXTREME
  auto_advance: true
  pick_delay: 2s
  seed: 42
challenges:
  ai:
    enabled: true
    setting: public
storage:
  driver: sqlite
  path: /tmp/trap.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("TRAP_GAME_LANGUAGE", "en")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.HTTP.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, game.LanguageEN, cfg.Language(), "environment wins over the file")
	assert.Equal(t, game.DifficultyExtreme, cfg.Difficulty())
	assert.True(t, cfg.Game.AutoAdvance)
	assert.Equal(t, 2*time.Second, cfg.Game.PickDelay)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
	assert.Equal(t, "secret", cfg.Challenges.AI.APIKey)
	assert.Equal(t, "public", cfg.Challenges.AI.Setting)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: redis\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func valid() Config {
	return Config{
		Server:     ServerConfig{HTTP: HTTPConfig{Address: ":8080"}},
		Logging:    LoggingConfig{Level: "info"},
		Game:       GameConfig{Language: "cn", Difficulty: "normal"},
		Challenges: ChallengesConfig{Source: SourceEmbedded},
		Storage:    StorageConfig{Driver: "memory"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no address", func(c *Config) { c.Server.HTTP.Address = "" }, "server.http.address"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"language", func(c *Config) { c.Game.Language = "fr" }, "game.language"},
		{"difficulty", func(c *Config) { c.Game.Difficulty = "brutal" }, "game.difficulty"},
		{"negative delay", func(c *Config) { c.Game.RevealDelay = -time.Second }, "delays"},
		{"source", func(c *Config) { c.Challenges.Source = "s3" }, "challenges.source"},
		{"file source without file", func(c *Config) { c.Challenges.Source = SourceFile }, "challenges.file"},
		{"postgres without url", func(c *Config) { c.Challenges.Source = SourcePostgres }, "database_url"},
		{"ai without key", func(c *Config) {
			c.Challenges.AI.Enabled = true
			c.Challenges.AI.Setting = "private"
		}, "api_key"},
		{"ai setting", func(c *Config) {
			c.Challenges.AI.Enabled = true
			c.Challenges.AI.APIKey = "k"
			c.Challenges.AI.Setting = "secret"
		}, "challenges.ai.setting"},
		{"driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver"},
		{"sqlite without path", func(c *Config) { c.Storage.Driver = "sqlite" }, "storage.path"},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
