package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/truthortrap/trap-server-go/internal/challenge"
	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. TRAP_SERVER_HTTP_ADDRESS.
const EnvPrefix = "TRAP"

// Corpus sources for the static challenge provider.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Game       GameConfig       `mapstructure:"game"`
	Challenges ChallengesConfig `mapstructure:"challenges"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds table defaults and the automatic pacing of turns.
type GameConfig struct {
	Language    string        `mapstructure:"language"`
	Difficulty  string        `mapstructure:"difficulty"`
	AutoAdvance bool          `mapstructure:"auto_advance"`
	PickDelay   time.Duration `mapstructure:"pick_delay"`
	RevealDelay time.Duration `mapstructure:"reveal_delay"`
	// Seed fixes the random source when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

type ChallengesConfig struct {
	Source        string        `mapstructure:"source"`
	File          string        `mapstructure:"file"`
	DatabaseURL   string        `mapstructure:"database_url"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	AI            AIConfig      `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Setting string        `mapstructure:"setting"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	SnapshotKey string `mapstructure:"snapshot_key"`
	ReplayDir   string `mapstructure:"replay_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.address", ":8080")
	v.SetDefault("server.http.read_timeout", 10*time.Second)
	v.SetDefault("server.http.write_timeout", 15*time.Second)
	v.SetDefault("server.http.idle_timeout", 120*time.Second)
	v.SetDefault("server.http.request_timeout", 15*time.Second)
	v.SetDefault("server.http.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.language", string(game.LanguageCN))
	v.SetDefault("game.difficulty", string(game.DifficultyNormal))
	v.SetDefault("game.auto_advance", false)
	v.SetDefault("game.pick_delay", 1500*time.Millisecond)
	v.SetDefault("game.reveal_delay", 1200*time.Millisecond)
	v.SetDefault("game.seed", 0)

	v.SetDefault("challenges.source", SourceEmbedded)
	v.SetDefault("challenges.file", "")
	v.SetDefault("challenges.database_url", "")
	v.SetDefault("challenges.lookup_timeout", 15*time.Second)
	v.SetDefault("challenges.ai.enabled", false)
	v.SetDefault("challenges.ai.model", challenge.DefaultModel)
	v.SetDefault("challenges.ai.api_key", "")
	v.SetDefault("challenges.ai.setting", string(challenge.SettingPrivate))
	v.SetDefault("challenges.ai.timeout", 10*time.Second)

	v.SetDefault("storage.driver", storage.DriverFile)
	v.SetDefault("storage.path", "data")
	v.SetDefault("storage.snapshot_key", game.SnapshotKey)
	v.SetDefault("storage.replay_dir", "")
}

// Load reads configuration from path, then the environment. A missing file is not an
// error; a .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("challenges.ai.api_key", EnvPrefix+"_CHALLENGES_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key: %w", err)
	}
	if err := v.BindEnv("challenges.database_url", EnvPrefix+"_CHALLENGES_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.HTTP.Address) == "" {
		errs = append(errs, errors.New("server.http.address is required"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if _, ok := game.ParseLanguage(c.Game.Language); !ok {
		errs = append(errs, fmt.Errorf("game.language %q is not supported", c.Game.Language))
	}
	if !game.Difficulty(strings.ToLower(c.Game.Difficulty)).Valid() {
		errs = append(errs, fmt.Errorf("game.difficulty %q is not supported", c.Game.Difficulty))
	}
	if c.Game.PickDelay < 0 || c.Game.RevealDelay < 0 {
		errs = append(errs, errors.New("game delays must not be negative"))
	}

	switch c.Challenges.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Challenges.File == "" {
			errs = append(errs, errors.New("challenges.file is required for the file source"))
		}
	case SourcePostgres:
		if c.Challenges.DatabaseURL == "" {
			errs = append(errs, errors.New("challenges.database_url is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("challenges.source %q is not one of embedded, file, postgres", c.Challenges.Source))
	}
	if c.Challenges.LookupTimeout < 0 || c.Challenges.AI.Timeout < 0 {
		errs = append(errs, errors.New("challenge timeouts must not be negative"))
	}
	if c.Challenges.AI.Enabled {
		if c.Challenges.AI.APIKey == "" {
			errs = append(errs, errors.New("challenges.ai.api_key (or GEMINI_API_KEY) is required when ai is enabled"))
		}
		if !challenge.Setting(c.Challenges.AI.Setting).Valid() {
			errs = append(errs, fmt.Errorf("challenges.ai.setting %q is not one of private, public", c.Challenges.AI.Setting))
		}
	}

	switch c.Storage.Driver {
	case storage.DriverMemory:
	case storage.DriverFile, storage.DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of memory, file, sqlite", c.Storage.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Language returns the configured default language.
func (c *Config) Language() game.Language {
	l, _ := game.ParseLanguage(c.Game.Language)
	return l
}

// Difficulty returns the configured default difficulty.
func (c *Config) Difficulty() game.Difficulty {
	return game.Difficulty(strings.ToLower(c.Game.Difficulty))
}
