package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Store settings
	DBDriver   string `mapstructure:"db_driver"` // "sqlite", "postgres" or "mysql"
	DBPath     string `mapstructure:"db_path"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBName     string `mapstructure:"db_name"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogFile      string `mapstructure:"log_file"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	LogMaxSizeMB int    `mapstructure:"log_max_size_mb"`
	LogMaxFiles  int    `mapstructure:"log_max_files"`

	ConfigPath string
}

const (
	DefaultConfigPath = "/etc/clientdb/config.yml"
	DefaultEnvFile    = ".env"
	DefaultDBDriver   = "sqlite"
	DefaultDBPath     = "clientdb.sqlite3"
	DefaultDBHost     = "localhost"
	DefaultDBName     = "client_db"
	DefaultDBUser     = "postgres"
	DefaultDBSSLMode  = "disable"
	DefaultAPIHost    = "0.0.0.0"
	DefaultAPIPort    = 8335
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"

	// PasswordEnv is read when db_password is not set anywhere else.
	PasswordEnv = "PASSWORD"
)

// Load reads the dotenv file, the YAML config and CLIENTDB_* environment
// overrides, in increasing order of precedence. A missing config file is
// only an error when configPath was given explicitly; the same holds for
// envFile.
func Load(configPath, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	v.SetDefault("db_driver", DefaultDBDriver)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("db_host", DefaultDBHost)
	v.SetDefault("db_port", 0)
	v.SetDefault("db_name", DefaultDBName)
	v.SetDefault("db_user", DefaultDBUser)
	v.SetDefault("db_password", "")
	v.SetDefault("db_sslmode", DefaultDBSSLMode)
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("log_max_size_mb", 0)
	v.SetDefault("log_max_files", 0)

	// Allow environment variable overrides
	v.SetEnvPrefix("CLIENTDB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath
	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv(PasswordEnv)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for sqlite")
		}
	case "postgres", "mysql":
		if c.DBHost == "" {
			return fmt.Errorf("db_host is required for %s", c.DBDriver)
		}
		if c.DBName == "" {
			return fmt.Errorf("db_name is required for %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("db_driver must be 'sqlite', 'postgres' or 'mysql'")
	}

	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port out of range: %d", c.APIPort)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'text' or 'json'")
	}

	return nil
}

// NeedsPassword reports whether the driver authenticates and no password
// was configured.
func (c *Config) NeedsPassword() bool {
	return c.DBDriver != "sqlite" && c.DBPassword == ""
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("CLIENTDB_DEV_MODE") == "1"
}
