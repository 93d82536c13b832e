package config

import (
	"fmt"
	"os"

	"github.com/CrymeFTW/1v1-games/logger"
	"github.com/pelletier/go-toml"
)

type Custom struct {
	Network struct {
		Listener  string `toml:"listener"`
		Transport string `toml:"transport"`
		Metric    bool   `toml:"metric"`
	} `toml:"network"`
	Log struct {
		Level   int    `toml:"level"`
		Filter  string `toml:"filter"`
		Limiter int    `toml:"limiter"`
	} `toml:"log"`
	RPC struct {
		Port int `toml:"port"`
	} `toml:"rpc"`
}

// Default is the configuration used when no file is supplied, command line
// flags may still override individual values.
func Default() *Custom {
	var config Custom
	config.applyDefaults()
	return &config
}

func Initialize(file string) (*Custom, error) {
	f, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var config Custom
	err = toml.Unmarshal(f, &config)
	if err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Custom) applyDefaults() {
	if c.Network.Listener == "" {
		c.Network.Listener = fmt.Sprintf(":%d", DefaultPort)
	}
	if c.Network.Transport == "" {
		c.Network.Transport = "tcp"
	}
	if c.Log.Level == 0 {
		c.Log.Level = logger.INFO
	}
}
