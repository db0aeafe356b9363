package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/agenthands/regcompare/internal/core/model"
)

type ServerConfig struct {
	Port string `toml:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `toml:"mode"`
}

type MatcherConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	// Archive stores every comparison run when a URI is configured.
	Archive bool `toml:"archive"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Matcher  MatcherConfig  `toml:"matcher"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080", Mode: "release"},
		Matcher: MatcherConfig{SimilarityThreshold: model.DefaultSimilarityThreshold},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load for an optional path; an empty path yields Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides configuration from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("REGCOMPARE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REGCOMPARE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("REGCOMPARE_SIMILARITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid REGCOMPARE_SIMILARITY %q: %w", v, err)
		}
		c.Matcher.SimilarityThreshold = f
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if t := c.Matcher.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matcher.similarity_threshold must be in (0, 1], got %v", t)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
