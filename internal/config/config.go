package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Network  NetworkConfig  `toml:"network"`
	Gameplay GameplayConfig `toml:"gameplay"`
	Chat     ChatConfig     `toml:"chat"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = run without profile persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type NetworkConfig struct {
	BindAddress      string        `toml:"bind_address"`
	TickRate         time.Duration `toml:"tick_rate"` // base tick; 100 ms contracts run on alternate ticks
	InQueueSize      int           `toml:"in_queue_size"`
	OutQueueSize     int           `toml:"out_queue_size"`
	MaxEventsPerTick int           `toml:"max_events_per_tick"`
	WriteTimeout     time.Duration `toml:"write_timeout"`
}

type GameplayConfig struct {
	AOIRadius         float64       `toml:"aoi_radius"`
	DefaultTown       string        `toml:"default_town"`
	DefaultClass      string        `toml:"default_class"`
	MoveThrottle      time.Duration `toml:"move_throttle"`
	PvPCooldown       time.Duration `toml:"pvp_cooldown"`
	MonsterRespawn    time.Duration `toml:"monster_respawn"`
	ReviveDelay       time.Duration `toml:"revive_delay"`
	MonsterMoveBcast  time.Duration `toml:"monster_move_broadcast"` // min gap between monster:move events per monster
	MonsterWanderGap  time.Duration `toml:"monster_wander_gap"`
	MonsterWanderOdds float64       `toml:"monster_wander_odds"` // per AI tick probability
	AttackStateClear  time.Duration `toml:"attack_state_clear"`
}

type ChatConfig struct {
	MaxLength       int           `toml:"max_length"`
	LocalCooldown   time.Duration `toml:"local_cooldown"`
	GlobalCooldown  time.Duration `toml:"global_cooldown"`
	WhisperCooldown time.Duration `toml:"whisper_cooldown"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
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
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Defaults returns the built-in configuration. Tests use it directly; Load
// layers file values on top of it.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "fieldrpg",
		},
		Database: DatabaseConfig{
			DSN:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Network: NetworkConfig{
			BindAddress:      "0.0.0.0:8080",
			TickRate:         50 * time.Millisecond,
			InQueueSize:      128,
			OutQueueSize:     256,
			MaxEventsPerTick: 32,
			WriteTimeout:     10 * time.Second,
		},
		Gameplay: GameplayConfig{
			AOIRadius:         800,
			DefaultTown:       "south_town",
			DefaultClass:      "swordsman",
			MoveThrottle:      40 * time.Millisecond,
			PvPCooldown:       time.Second,
			MonsterRespawn:    5 * time.Second,
			ReviveDelay:       3 * time.Second,
			MonsterMoveBcast:  100 * time.Millisecond,
			MonsterWanderGap:  500 * time.Millisecond,
			MonsterWanderOdds: 0.01,
			AttackStateClear:  400 * time.Millisecond,
		},
		Chat: ChatConfig{
			MaxLength:       200,
			LocalCooldown:   time.Second,
			GlobalCooldown:  5 * time.Second,
			WhisperCooldown: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
