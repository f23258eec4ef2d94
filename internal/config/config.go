package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	SiteInfo SiteInfo `yaml:"siteInfo"`
	Server   Server   `yaml:"server"`
}

type SiteInfo struct {
	Name           string `yaml:"name"`
	DefaultLocale  string `yaml:"defaultLocale"` // az or ru
	PublicBaseURL  string `yaml:"publicBaseURL"`
	AdminPanelPath string `yaml:"adminPanelPath"`
}

type Server struct {
	Listen                   string `yaml:"listen"`
	PostgresDsn              string `yaml:"postgresDsn"`
	RedisAddr                string `yaml:"redisAddr"`
	RedisPassword            string `yaml:"redisPassword"`
	RedisDB                  int    `yaml:"redisDB"`
	ContentDir               string `yaml:"contentDir"`
	EnableTrace              bool   `yaml:"enableTrace"`
	TraceEndpoint            string `yaml:"traceEndpoint"`
	AdminPasswordHash        string `yaml:"adminPasswordHash"`
	AdminToken               string `yaml:"adminToken"`
	ReconnectCooldownSeconds int    `yaml:"reconnectCooldownSeconds"`
	CacheTTLSeconds          int    `yaml:"cacheTTLSeconds"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.ContentDir == "" {
		config.Server.ContentDir = "./content"
	}
	if config.Server.ReconnectCooldownSeconds <= 0 {
		config.Server.ReconnectCooldownSeconds = 30
	}
	if config.Server.CacheTTLSeconds <= 0 {
		config.Server.CacheTTLSeconds = 60
	}

	return config, nil
}
