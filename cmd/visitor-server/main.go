package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/deskhive/deskhive/internal/database"
	"github.com/deskhive/deskhive/internal/env"
	"github.com/deskhive/deskhive/internal/netguard"
	"github.com/deskhive/deskhive/internal/version"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func init() {
	flag.Parse()
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	cors struct {
		origins []string
	}
	networks []string
	mail     struct {
		host      string
		port      int
		sender    string
		password  string
		recipient string
	}
	exportDir string
}

type application struct {
	config config
	db     *database.DB
	guard  *netguard.Guard
	logger *slog.Logger
	wg     sync.WaitGroup
}

func run(logger *slog.Logger) error {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8081)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.cors.origins = env.GetStrings("CORS_ORIGINS", nil)
	cfg.networks = env.GetStrings("ALLOWED_NETWORKS", []string{"192.168.0.0/24"})
	cfg.mail.host = env.GetString("MAIL_HOST", "smtp.gmail.com")
	cfg.mail.port = env.GetInt("MAIL_PORT", 465)
	cfg.mail.sender = env.GetString("MAIL_SENDER", "")
	cfg.mail.password = env.GetString("MAIL_PASSWORD", "")
	cfg.mail.recipient = env.GetString("REPORT_RECIPIENT", "reports@deskhive.io")
	cfg.exportDir = env.GetString("EXPORT_DIR", ".")

	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	guard, err := netguard.New(cfg.networks)
	if err != nil {
		return err
	}

	db, err := database.New(cfg.db.dsn, cfg.db.automigrate, database.MigrationsVisitor)
	if err != nil {
		return err
	}
	defer db.Close()

	app := &application{
		config: cfg,
		db:     db,
		guard:  guard,
		logger: logger,
	}

	scheduler, err := app.scheduleJobs()
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	return app.serveHTTP()
}
