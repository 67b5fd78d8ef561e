package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/scoula/internal/handler"
	"github.com/itchan-dev/scoula/internal/markdown"
	"github.com/itchan-dev/scoula/internal/service"
	"github.com/itchan-dev/scoula/internal/storage/db"
	"github.com/itchan-dev/scoula/internal/storage/fs"
	"github.com/itchan-dev/scoula/internal/storage/s3"
	"github.com/itchan-dev/scoula/internal/view"
	"github.com/itchan-dev/scoula/shared/config"
	"github.com/itchan-dev/scoula/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Storage *db.Storage
	Media   service.MediaStorage
	Handler *handler.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := db.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	media, err := newMedia(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	renderer, err := view.New(markdown.New())
	if err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	board := service.WithTracing(service.NewBoard(storage, media))
	todo := service.WithTodoTracing(service.NewTodo(storage))

	h := handler.New(board, todo, renderer, storage, cfg.Public)

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Media:   media,
		Handler: h,
	}, nil
}

// Cleanup releases the database pool.
func (d *Dependencies) Cleanup() {
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close storage", "error", err)
	}
}

func newMedia(ctx context.Context, cfg *config.Config) (service.MediaStorage, error) {
	switch cfg.Public.Media.Backend {
	case config.MediaS3:
		logger.Log.Info("using s3 media storage", "bucket", cfg.Public.Media.S3.Bucket)
		return s3.New(ctx, cfg)
	case config.MediaFS, "":
		logger.Log.Info("using filesystem media storage", "root", cfg.Public.Media.Root)
		return fs.New(cfg.Public.Media.Root)
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Public.Media.Backend)
	}
}
