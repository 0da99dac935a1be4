package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultIndexName is used by the indexing and admin paths when
// AZURE_SEARCH_INDEX_NAME is not set.
const DefaultIndexName = "informatica-workflows"

// Config holds the configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Search  SearchConfig  `mapstructure:"search"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	RoutePrefix string `mapstructure:"route_prefix"`
}

// SearchConfig points at the Azure AI Search service.
type SearchConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	IndexName  string `mapstructure:"index_name"`
	APIVersion string `mapstructure:"api_version"`
	BatchSize  int    `mapstructure:"batch_size"`
}

// StorageConfig points at the blob container holding the XML exports.
type StorageConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	ContainerName    string `mapstructure:"container_name"`
}

// envBindings maps config keys to the environment variables the function
// host has always used.
var envBindings = map[string]string{
	"search.endpoint":           "AZURE_SEARCH_ENDPOINT",
	"search.api_key":            "AZURE_SEARCH_API_KEY",
	"search.index_name":         "AZURE_SEARCH_INDEX_NAME",
	"search.api_version":        "AZURE_SEARCH_API_VERSION",
	"search.batch_size":         "SEARCH_UPLOAD_BATCH_SIZE",
	"storage.connection_string": "AZURE_STORAGE_CONNECTION_STRING",
	"storage.container_name":    "BLOB_CONTAINER_NAME",
	"server.addr":               "SERVER_ADDR",
	"server.route_prefix":       "SERVER_ROUTE_PREFIX",
	"log.level":                 "LOG_LEVEL",
}

// LoadConfig loads the configuration from an optional file and the environment.
// An empty path searches for config.yaml in . and ./config; a missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("search.api_version", "2023-11-01")
	v.SetDefault("search.batch_size", 10)
	v.SetDefault("storage.container_name", "xml-metadata")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.route_prefix", "")
	v.SetDefault("log.level", "info")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind %s", env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.Search.Endpoint = normalizeEndpoint(cfg.Search.Endpoint)
	cfg.Server.RoutePrefix = normalizePrefix(cfg.Server.RoutePrefix)
	if cfg.Search.BatchSize <= 0 {
		cfg.Search.BatchSize = 10
	}

	return &cfg, nil
}

// MissingError reports required configuration that is absent.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

func require(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingError{Keys: missing}
}

// Validate checks the credentials needed to talk to the search service.
func (s SearchConfig) Validate() error {
	return require(
		"AZURE_SEARCH_ENDPOINT", s.Endpoint,
		"AZURE_SEARCH_API_KEY", s.APIKey,
	)
}

// ValidateIndex is Validate plus an explicit index name, which the query
// routes have always required.
func (s SearchConfig) ValidateIndex() error {
	return require(
		"AZURE_SEARCH_ENDPOINT", s.Endpoint,
		"AZURE_SEARCH_API_KEY", s.APIKey,
		"AZURE_SEARCH_INDEX_NAME", s.IndexName,
	)
}

// IndexNameOrDefault returns the configured index name or DefaultIndexName.
func (s SearchConfig) IndexNameOrDefault() string {
	if strings.TrimSpace(s.IndexName) == "" {
		return DefaultIndexName
	}
	return s.IndexName
}

// Validate checks the blob storage connection string.
func (s StorageConfig) Validate() error {
	return require("AZURE_STORAGE_CONNECTION_STRING", s.ConnectionString)
}

// normalizeEndpoint strips whitespace and any trailing slash so request paths
// can be appended directly.
func normalizeEndpoint(input string) string {
	return strings.TrimRight(strings.TrimSpace(input), "/")
}

func normalizePrefix(input string) string {
	p := strings.Trim(strings.TrimSpace(input), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
