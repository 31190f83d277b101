package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const configFile = "config.toml"

// Config is the content of config.toml in the home directory.
type Config struct {
	// ChainID is used by init when the genesis file does not name a chain.
	ChainID string `toml:"chain_id"`
	// DBPath is relative to the home directory unless absolute.
	DBPath    string `toml:"db_path"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// DefaultConfig returns the configuration written on first use.
func DefaultConfig() Config {
	return Config{
		ChainID:   "barter-local",
		DBPath:    filepath.Join("data", "barter.db"),
		LogLevel:  "error",
		LogFormat: "plain",
	}
}

// LoadConfig reads the configuration from the home directory. A default
// configuration is written if none exists yet.
func LoadConfig(home string) (*Config, error) {
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := persistConfig(path, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "config %s: %s", path, err)
	}
	if keys := meta.Undecoded(); len(keys) != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "config %s: unknown key %s", path, keys[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &cfg, nil
}

// Validate checks all values can be used.
func (c *Config) Validate() error {
	if !barter.IsValidChainID(c.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain_id %q", c.ChainID)
	}
	if c.DBPath == "" {
		return errors.Wrap(errors.ErrInvalidInput, "db_path is required")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "log_level: %s", err)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "log_format %q", c.LogFormat)
	}
	return nil
}

// DatabasePath returns the absolute location of the database.
func (c *Config) DatabasePath(home string) string {
	if filepath.IsAbs(c.DBPath) {
		return c.DBPath
	}
	return filepath.Join(home, c.DBPath)
}

// Logger returns a logger writing to w in the configured format, dropping
// everything below the configured level.
func (c *Config) Logger(w io.Writer) (log.Logger, error) {
	var logger log.Logger
	if c.LogFormat == "json" {
		logger = log.NewTMJSONLogger(log.NewSyncWriter(w))
	} else {
		logger = log.NewTMLogger(log.NewSyncWriter(w))
	}
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log_level: %s", err)
	}
	return log.NewFilter(logger, opt).With("module", "barter"), nil
}

func persistConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
