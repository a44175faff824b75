package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`
	OMA struct {
		ArchiveURL string `yaml:"archive_url"`
	} `yaml:"oma"`
	Wikidata struct {
		APIURL    string `yaml:"api_url"`
		SPARQLURL string `yaml:"sparql_url"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
	} `yaml:"wikidata"`
}

// LoadConfig builds the run configuration: defaults, then an optional YAML
// file, then .env / environment overrides. A missing config file is fine;
// everything has a default except the write-mode credentials.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config
	cfg.Data.Dir = "data"

	// 2. Load YAML config if present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with environment variables if present
	if user := os.Getenv("WDUSER"); user != "" {
		cfg.Wikidata.User = user
	}
	if pass := os.Getenv("WDPASS"); pass != "" {
		cfg.Wikidata.Password = pass
	}
	if dir := os.Getenv("OMABOT_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}

	return &cfg, nil
}

// RequireWriteCredentials checks the credentials needed for write mode.
// Their absence is a fatal setup error, raised before any file is read.
func (c *Config) RequireWriteCredentials() error {
	if c.Wikidata.User == "" || c.Wikidata.Password == "" {
		return fmt.Errorf("WDUSER and WDPASS must be specified in `.env` file or as environment variables")
	}
	return nil
}
