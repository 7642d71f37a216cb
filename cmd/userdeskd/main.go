package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/jask/userdesk/internal/config"
	"github.com/jask/userdesk/internal/database"
	"github.com/jask/userdesk/internal/database/repository"
	"github.com/jask/userdesk/internal/sample"
	"github.com/jask/userdesk/internal/server"
	"github.com/jask/userdesk/internal/service"
)

// Options override the server section of the config file.
type Options struct {
	Addr        string `short:"a" long:"addr" description:"Listen address (default from config server.addr)"`
	Database    string `short:"d" long:"db" description:"SQLite database path (default from config server.database_path)"`
	Collection  string `short:"c" long:"collection" description:"Collection name served (default from config remote.collection)"`
	Sample      int    `long:"sample" description:"Insert this many random users on startup"`
	Reset       bool   `long:"reset" description:"Delete every user before serving"`
	NoSeed      bool   `long:"no-seed" description:"Do not insert the default users into an empty database"`
	WriteConfig bool   `long:"write-config" description:"Persist the effective configuration, flags included, and exit"`
}

func main() {
	log.SetPrefix("[USERDESKD] ")

	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := effectiveConfig(opts)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if opts.WriteConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("write config: %v", err)
		}
		log.Printf("config written")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Server.DatabasePath), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	db, err := database.Open(cfg.Server.DatabasePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.NewUserRepo(db)
	maintenance := &service.MaintenanceService{DB: db}

	if opts.Reset {
		if err := maintenance.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Printf("collection reset")
	}
	if !opts.NoSeed {
		if err := database.SeedDefaults(ctx, db); err != nil {
			log.Fatalf("seed defaults: %v", err)
		}
	}
	if opts.Sample > 0 {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := sample.Seed(ctx, repo, opts.Sample, rng); err != nil {
			log.Fatalf("sample: %v", err)
		}
		log.Printf("inserted %d sample users", opts.Sample)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.LogRequests(server.New(repo, cfg.Remote.Collection)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving /%s on %s (db %s)", cfg.Remote.Collection, cfg.Server.Addr, cfg.Server.DatabasePath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}

// effectiveConfig is the config file and env with flags applied on top.
func effectiveConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	applyOptions(&cfg, opts)
	return cfg, nil
}

func applyOptions(cfg *config.Config, opts Options) {
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	if opts.Database != "" {
		cfg.Server.DatabasePath = opts.Database
	}
	if opts.Collection != "" {
		cfg.Remote.Collection = opts.Collection
	}
}
