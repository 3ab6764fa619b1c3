package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Fields      FieldsConfig      `toml:"fields"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Notion  NotionConfig  `toml:"notion"`
	Spotify SpotifyConfig `toml:"spotify"`
}

// NotionConfig contains the Notion integration token and the album database to operate on.
type NotionConfig struct {
	APIKey     string `toml:"api_key"`
	DatabaseID string `toml:"database_id"`
}

// SpotifyConfig contains Spotify API credentials for the client-credentials flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DatabaseConfig contains local database connection settings for run history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FieldsConfig maps the Notion property names the album database uses.
type FieldsConfig struct {
	Album  string `toml:"album"`
	Rank   string `toml:"rank"`
	Artist string `toml:"artist"`
	Status string `toml:"status"`
}

// Map converts the Notion credentials to the map shape consumed by service constructors.
func (c NotionConfig) Map() map[string]string {
	return map[string]string{
		"api_key":     c.APIKey,
		"database_id": c.DatabaseID,
	}
}

// Map converts the Spotify credentials to the map shape consumed by service constructors.
func (c SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
}

// Validate checks that the Notion credentials required by every catalog operation are present.
func (c NotionConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: notion api_key must be set in config.toml", ErrMissingCredentials)
	}
	if c.DatabaseID == "" {
		return fmt.Errorf("%w: notion database_id must be set in config.toml", ErrMissingDatabaseID)
	}
	return nil
}

// Validate checks that the Spotify client-credential pair is present.
func (c SpotifyConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret must be set in config.toml", ErrMissingCredentials)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Fields = config.Fields.withDefaults()

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.Fields = config.Fields.withDefaults()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (f FieldsConfig) withDefaults() FieldsConfig {
	if f.Album == "" {
		f.Album = "Album"
	}
	if f.Rank == "" {
		f.Rank = "Top"
	}
	if f.Artist == "" {
		f.Artist = "Artist"
	}
	if f.Status == "" {
		f.Status = "Status"
	}
	return f
}
