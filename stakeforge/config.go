package stakeforge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/configstore"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/registry"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML config at path. Values from a .env file or the process
// environment override secrets in the file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.String("type", "sys"), slog.Any("error", err))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig                `toml:"log"`
	Bot      BotConfig                `toml:"bot"`
	DB       database.DBConfig        `toml:"db"`
	Spaces   configstore.SpacesConfig `toml:"spaces"`
	Registry registry.Config          `toml:"registry"`
	Tables   TablesConfig             `toml:"tables"`
	Engine   EngineConfig             `toml:"engine"`
	API      APIConfig                `toml:"api"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type TablesConfig struct {
	// Source is "file", "spaces" or empty for the built-in tables.
	Source string `toml:"source"`
	Path   string `toml:"path"`
	// ReloadMinutes re-reads the tables periodically when positive.
	ReloadMinutes int `toml:"reload_minutes"`
}

type EngineConfig struct {
	FeeBase            int64 `toml:"fee_base"`
	FeeMin             int64 `toml:"fee_min"`
	FeeMax             int64 `toml:"fee_max"`
	PreviewConcurrency int   `toml:"preview_concurrency"`
}

type APIConfig struct {
	Addr         string `toml:"addr"`
	AllowOrigins string `toml:"allow_origins"`
	// APIKey guards mutating endpoints when set.
	APIKey string `toml:"api_key"`
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DISCORD_TOKEN": &c.Bot.Token,
		"DB_PASSWORD":   &c.DB.Password,
		"DB_HOST":       &c.DB.Host,
		"SPACES_KEY":    &c.Spaces.Key,
		"SPACES_SECRET": &c.Spaces.Secret,
		"MONGO_URI":     &c.Registry.URI,
		"API_KEY":       &c.API.APIKey,
	}
	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
	if v, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && v > 0 {
		c.DB.Port = v
	}
}

// EngineOptions maps the engine section onto engine.Config, keeping defaults for
// unset values.
func (c *Config) EngineOptions() engine.Config {
	out := engine.DefaultConfig()
	if c.Engine.FeeBase > 0 {
		out.FeeBase = c.Engine.FeeBase
	}
	if c.Engine.FeeMin > 0 || c.Engine.FeeMax > 0 {
		out.FeeBounds = rewards.FeeBounds{Min: c.Engine.FeeMin, Max: c.Engine.FeeMax}
	}
	if c.Engine.PreviewConcurrency > 0 {
		out.PreviewConcurrency = c.Engine.PreviewConcurrency
	}
	return out
}

// TableStore picks where game tables come from.
func (c *Config) TableStore(ctx context.Context) (configstore.Store, error) {
	switch c.Tables.Source {
	case "file":
		return configstore.FileStore{Path: c.Tables.Path}, nil
	case "spaces":
		spaces := c.Spaces
		if c.Tables.Path != "" {
			spaces.Object = c.Tables.Path
		}
		return configstore.NewSpacesStore(ctx, spaces)
	case "", "default":
		return configstore.DefaultStore{}, nil
	default:
		return nil, fmt.Errorf("unknown tables source %q", c.Tables.Source)
	}
}
