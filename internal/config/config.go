package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cardparty-client/internal/util"
)

// Config provides configuration for the card party client
type Config struct {
	loaded bool

	// ServerURL is the http(s) base URL of the game platform
	ServerURL string `yaml:"serverUrl" envconfig:"server_url"`

	// RoomCode is the room to join. Empty means a new room is created.
	RoomCode string `yaml:"roomCode" envconfig:"room_code"`

	// GameType selects the rule set when creating a room
	GameType string `yaml:"gameType" envconfig:"game_type"`

	// PlayerName is the display name. Empty means a random one is picked.
	PlayerName string `yaml:"playerName" envconfig:"player_name"`

	Log struct {
		Level string `yaml:"level" envconfig:"level"`
	} `yaml:"log"`
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

// Load will load the configuration. The YAML file is optional; a local .env
// and real environment variables take precedence over it.
func Load() error {
	_ = godotenv.Load()

	config = Config{}

	configFile := util.Getenv("CARDPARTY_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("cardparty", &config); err != nil {
		return err
	}

	if config.ServerURL == "" {
		config.ServerURL = "http://localhost:8000"
	}

	if config.GameType == "" {
		config.GameType = "exploding_kittens"
	}

	config.loaded = true
	return nil
}
