package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdemtable-server/internal/util"
)

// Config provides configuration for the hold'em table server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	// StartGameDelay is the number of seconds between enough players being seated
	// and the first cards going out
	StartGameDelay int `yaml:"startGameDelay" envconfig:"start_game_delay"`
	// TurnTimeout is the number of seconds a player may sit on the clock before a
	// check or fold is forced through the normal action path
	TurnTimeout int `yaml:"turnTimeout" envconfig:"turn_timeout"`
	// DisconnectGrace is the number of seconds a disconnected player keeps their
	// seat before being stood up
	DisconnectGrace int `yaml:"disconnectGrace" envconfig:"disconnect_grace"`
	Blinds          struct {
		Small int `yaml:"small"`
		Big   int `yaml:"big"`
	}
	BuyIn struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	}
	// EnableTestEndpoints turns on the /api/test fixture interface.
	// Never enable in production.
	EnableTestEndpoints bool `yaml:"enableTestEndpoints" envconfig:"enable_test_endpoints"`
	Log                 struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

func defaults() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.StartGameDelay = 10
	c.TurnTimeout = 30
	c.DisconnectGrace = 5
	c.Blinds.Small = 1
	c.Blinds.Big = 2
	c.BuyIn.Min = 20
	c.BuyIn.Max = 2000
	return c
}

// Load will load the configuration
// The YAML file is optional; environment variables always take precedence
func Load() error {
	config = defaults()

	configFile := util.Getenv("HTS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("hts", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
