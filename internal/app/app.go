package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/five82/studydesk/internal/config"
	"github.com/five82/studydesk/internal/download"
	"github.com/five82/studydesk/internal/logging"
	"github.com/five82/studydesk/internal/prefs"
	"github.com/five82/studydesk/internal/state"
	"github.com/five82/studydesk/internal/storage"
	"github.com/five82/studydesk/internal/ui"
)

// Options configure the studydesk application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/studydesk/prefs.toml
	// Memory keeps the document in memory regardless of the configured
	// backend.
	Memory bool
}

// Services are the opened backends shared by the TUI and the subcommands.
type Services struct {
	Config config.Config
	Log    *logging.Logger
	Store  *state.Store

	closers []func() error
}

// Open loads the config and opens the logger, the storage backend and the
// store. The caller must Close the result.
func Open(ctx context.Context, opts Options) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Memory {
		cfg.Backend = config.BackendMemory
	}

	log, err := logging.New(logging.Options{Mode: cfg.LogMode, Path: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	svc := &Services{Config: cfg, Log: log}

	persist, blobs, err := svc.openBackend(ctx)
	if err != nil {
		svc.Close()
		return nil, err
	}
	log.Info("storage ready", "backend", string(cfg.Backend))

	svc.Store = state.Open(ctx, persist,
		state.WithLogger(log),
		state.WithBlobs(blobs),
	)
	return svc, nil
}

func (s *Services) openBackend(ctx context.Context) (storage.DocumentStore, storage.BlobStore, error) {
	cfg := s.Config
	switch cfg.Backend {
	case config.BackendMemory:
		return &storage.MemoryStore{}, &storage.MemoryBlobs{}, nil

	case config.BackendRedis:
		rs, err := storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis: %w", err)
		}
		s.closers = append(s.closers, rs.Close)
		return rs, rs, nil

	default:
		blobs, err := storage.OpenBoltBlobs(cfg.BlobFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open attachments: %w", err)
		}
		s.closers = append(s.closers, blobs.Close)
		return storage.NewFileStore(cfg.DocumentFile), blobs, nil
	}
}

// Close releases the backends in reverse order of opening.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if s.Log != nil {
		s.Log.Sync()
	}
	return errors.Join(errs...)
}

// Run boots the studydesk TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer svc.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	engine := download.New(ctx, svc.Store,
		download.WithInterval(svc.Config.DownloadTick),
		download.WithLogger(svc.Log),
	)
	defer engine.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	// Retry failed saves while the UI is up.
	g.Go(func() error {
		RunSaver(gctx, svc.Store, svc.Log, defaultSaveRetry)
		return nil
	})

	g.Go(func() error {
		defer stop()
		return ui.Run(gctx, ui.Options{
			Store:     svc.Store,
			Engine:    engine,
			Log:       svc.Log,
			ThemeName: userPrefs.Theme,
			PrefsPath: opts.PrefsPath,
		})
	})

	err = g.Wait()
	if flushErr := svc.Store.Flush(context.Background()); flushErr != nil {
		svc.Log.Error("final save failed", "error", flushErr)
	}
	return err
}
