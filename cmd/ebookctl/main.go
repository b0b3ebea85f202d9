// Command ebookctl drives the remote ebook generation service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/ebookctl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ebookctl/internal/adapters/driven/remote"
	"github.com/custodia-labs/ebookctl/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/cli"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/progress"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/core/services"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &application{ctx: ctx}
	cli.SetVersion(version)
	cli.SetServiceFactory(app.build)

	err := cli.Execute(ctx)
	app.close()
	stop()

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, progress.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Error:", cli.FormatError(err))
		}
		os.Exit(1)
	}
}

// application owns the resources opened for one invocation.
type application struct {
	ctx   context.Context
	store *sqlite.Store
}

func (a *application) build(opts cli.Options) (*cli.Services, error) {
	dir, err := file.DefaultDir()
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = store

	session := services.NewSessionStore(store.TokenStore())
	if err := session.Load(a.ctx); err != nil {
		logger.Warn("Could not restore session: %v", err)
	}

	baseURL := settings.API.URL
	if opts.APIURL != "" {
		baseURL = opts.APIURL
	}
	client, err := remote.NewClient(remote.Config{
		BaseURL:       baseURL,
		Timeout:       time.Duration(settings.API.TimeoutSeconds) * time.Second,
		RatePerSecond: float64(settings.API.RatePerSecond),
		Burst:         settings.API.Burst,
		UserAgent:     "ebookctl/" + version,
	}, session)
	if err != nil {
		return nil, err
	}
	session.Subscribe(client.ResetCookies)
	logger.Debug("Using API %s", baseURL)

	activity := store.ActivityStore()
	pipeline := services.NewPipelineOrchestrator(client, session, activity)
	assets := services.NewAssetMutator(client, client, session, activity)
	export := services.NewExportGateway(client, session, activity)

	return &cli.Services{
		Session:     session,
		Auth:        services.NewAuthController(client, session),
		Pipeline:    pipeline,
		Assets:      assets,
		Export:      export,
		Settings:    settingsService,
		Observables: []driving.StageObservable{pipeline, assets, export},
		LoadSpec:    file.LoadSpec,
		ConfigDir:   dir,
	}, nil
}

func (a *application) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Warn("Closing store: %v", err)
	}
}
