package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	DefaultAPIHost      = "https://localhost:8443"
	DefaultDatabasePath = "assetmesh.db"
	DefaultItemsPerPage = 4
)

// Config holds the runtime settings of an assetmesh deployment.
type Config struct {
	// ImageAPIURL is the image generation endpoint.
	ImageAPIURL string `mapstructure:"image_api_url"`
	// ModelAPIURL is the model generation endpoint.
	ModelAPIURL string `mapstructure:"model_api_url"`
	// DatabasePath is the sqlite database file. Empty selects the
	// in-memory store.
	DatabasePath string `mapstructure:"database_path"`
	// ItemsPerPage is the carousel page size.
	ItemsPerPage int `mapstructure:"items_per_page"`
	// DownloadDir is where downloaded models are written.
	DownloadDir string `mapstructure:"download_dir"`
	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`
}

// Options configures Load.
type Options struct {
	// ConfigFile is an explicit config file path. When empty, an
	// assetmesh.yaml in the working directory is used if present.
	ConfigFile string
}

// Load reads configuration from defaults, an optional YAML config file and
// ASSETMESH_* environment variables, in increasing precedence.
func Load(optFns ...func(o *Options)) (*Config, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := viper.New()
	v.SetDefault("image_api_url", DefaultAPIHost+"/image/images/create-image")
	v.SetDefault("model_api_url", DefaultAPIHost+"/model/models/create-from-image")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("items_per_page", DefaultItemsPerPage)
	v.SetDefault("download_dir", ".")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("ASSETMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("assetmesh")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.ItemsPerPage <= 0 {
		return nil, fmt.Errorf("items_per_page must be positive, got %d", cfg.ItemsPerPage)
	}
	return &cfg, nil
}
