package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pixil98/go-errors"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "WORLDCORE_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/server.toml"

type Config struct {
	Server    ServerConfig    `toml:"server"`
	World     WorldConfig     `toml:"world"`
	Data      DataConfig      `toml:"data"`
	Database  DatabaseConfig  `toml:"database"`
	Network   NetworkConfig   `toml:"network"`
	Scripting ScriptingConfig `toml:"scripting"`
	Nats      NatsConfig      `toml:"nats"`
	Logging   LoggingConfig   `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type WorldConfig struct {
	TickRate         time.Duration `toml:"tick_rate"`
	MaxPlayers       int           `toml:"max_players"`
	MaxNpcs          int           `toml:"max_npcs"`
	PrivateItemTicks int           `toml:"private_item_ticks"`
	ViewDistance     int           `toml:"view_distance"`
	AutosaveTicks    int           `toml:"autosave_ticks"`
	DebugTickTime    bool          `toml:"debug_tick_time"`
	FakePlayers      int           `toml:"fake_players"`
	// Regions are preloaded at startup as [x, y] pairs. If none of them
	// load the server refuses to start.
	Regions [][2]int `toml:"regions"`
	Spawn   [3]int   `toml:"spawn"` // x, y, level for new players
}

type DataConfig struct {
	Dir        string `toml:"dir"`         // yaml tables
	RegionsDir string `toml:"regions_dir"` // <rx>_<ry>.yaml map regions
}

// DatabaseConfig configures the player store. An empty DSN keeps saves in
// memory for the life of the process.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type NetworkConfig struct {
	BindAddress        string        `toml:"bind_address"`
	InQueueSize        int           `toml:"in_queue_size"`
	OutQueueSize       int           `toml:"out_queue_size"`
	MaxPacketsPerTick  int           `toml:"max_packets_per_tick"`
	MaxConnsPerIP      int           `toml:"max_conns_per_ip"` // 0 = unlimited
	WriteTimeout       time.Duration `toml:"write_timeout"`
	AutoCreateAccounts bool          `toml:"auto_create_accounts"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // *.lua content scripts; empty disables scripting
}

// NatsConfig mirrors outbound intents to a NATS server. Empty URL disables it.
type NatsConfig struct {
	URL           string `toml:"url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RateLimitConfig struct {
	Enabled          bool `toml:"enabled"`
	PacketsPerSecond int  `toml:"packets_per_second"`
}

// Path returns the config file to load.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.World.TickRate <= 0 {
		el.Add(fmt.Errorf("world.tick_rate must be positive"))
	}
	if c.World.MaxPlayers <= 0 {
		el.Add(fmt.Errorf("world.max_players must be positive"))
	}
	if c.World.MaxNpcs <= 0 {
		el.Add(fmt.Errorf("world.max_npcs must be positive"))
	}
	if c.World.AutosaveTicks < 0 {
		el.Add(fmt.Errorf("world.autosave_ticks must not be negative"))
	}
	if c.World.FakePlayers < 0 || c.World.FakePlayers > c.World.MaxPlayers {
		el.Add(fmt.Errorf("world.fake_players must be between 0 and max_players"))
	}
	if lvl := c.World.Spawn[2]; lvl < 0 || lvl > 3 {
		el.Add(fmt.Errorf("world.spawn level %d out of range", lvl))
	}
	if c.Network.BindAddress == "" {
		el.Add(fmt.Errorf("network.bind_address is required"))
	}
	if c.Network.MaxConnsPerIP < 0 {
		el.Add(fmt.Errorf("network.max_conns_per_ip must not be negative"))
	}
	if c.Network.InQueueSize <= 0 || c.Network.OutQueueSize <= 0 {
		el.Add(fmt.Errorf("network queue sizes must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		el.Add(fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}

	return el.Err()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "worldcore",
		},
		World: WorldConfig{
			TickRate:         600 * time.Millisecond,
			MaxPlayers:       1000,
			MaxNpcs:          30000,
			PrivateItemTicks: 100,
			ViewDistance:     30,
			AutosaveTicks:    100,
			Regions:          [][2]int{{50, 50}},
			Spawn:            [3]int{3222, 3222, 0},
		},
		Data: DataConfig{
			Dir:        "data",
			RegionsDir: "data/regions",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Network: NetworkConfig{
			BindAddress:        "0.0.0.0:43594",
			InQueueSize:        128,
			OutQueueSize:       256,
			MaxPacketsPerTick:  16,
			MaxConnsPerIP:      5,
			WriteTimeout:       10 * time.Second,
			AutoCreateAccounts: true,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Nats: NatsConfig{
			SubjectPrefix: "worldcore.player",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			PacketsPerSecond: 60,
		},
	}
}
