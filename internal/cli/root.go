package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/martijn/clientdb/internal/core/repository"
	"github.com/martijn/clientdb/internal/infrastructure/sqldb"
	"github.com/martijn/clientdb/internal/logger"
	"github.com/martijn/clientdb/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile   string
	envFile   string
	cfg       *config.Config
	log       *slog.Logger
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clientdb",
	Short: "clientdb - customer contact records",
	Long: `clientdb keeps customer contact records (name, surname, email and any
number of phone numbers) in SQLite, PostgreSQL or MySQL.

It provides:
- A demonstration scenario exercising every store operation
- A JSON API over the same operations`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile, envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, logCloser, err = logger.New(logger.Options{
			Level:     cfg.LogLevel,
			Format:    cfg.LogFormat,
			File:      cfg.LogFile,
			MaxSizeMB: cfg.LogMaxSizeMB,
			MaxFiles:  cfg.LogMaxFiles,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		slog.SetDefault(log)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with secrets (default is "+config.DefaultEnvFile+")")
}

// Services holds the store handle and everything built on it
type Services struct {
	DB         *sqldb.DB
	Schema     repository.SchemaManager
	ClientRepo repository.ClientRepository
}

func newServices(db *sqldb.DB) *Services {
	return &Services{
		DB:         db,
		Schema:     sqldb.NewSchemaManager(db),
		ClientRepo: sqldb.NewClientRepository(db),
	}
}

// initServices connects to the configured store
func initServices(ctx context.Context) (*Services, error) {
	if err := promptPassword(); err != nil {
		return nil, err
	}

	driver, err := sqldb.ParseDriver(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	opts := sqldb.Options{
		Driver:   driver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		SSLMode:  cfg.DBSSLMode,
	}

	db, err := sqldb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.DebugContext(ctx, "connected to store", "driver", driver, "dsn", opts.DSN())

	return newServices(db), nil
}

// promptPassword asks for the store password on an interactive terminal
// when the driver needs one and none was configured.
func promptPassword() error {
	if !cfg.NeedsPassword() || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	fmt.Fprint(os.Stderr, "Database password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	cfg.DBPassword = string(password)
	return nil
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
