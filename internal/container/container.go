package container

import (
	"context"
	"fmt"
	"os"

	"upscale/tap/internal/catalog"
	"upscale/tap/internal/client"
	"upscale/tap/internal/config"
	"upscale/tap/internal/service"
	"upscale/tap/internal/sink"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components of one sync run
type Container struct {
	Config *config.Config
	RunID  uuid.UUID
	Client client.UpscaleClient
	Sink   sink.Sink

	Service *service.Service
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		RunID:  uuid.New(),
	}

	recordSink, err := newSink(ctx, cfg, container.RunID)
	if err != nil {
		return nil, err
	}
	container.Sink = recordSink

	upscaleClient := client.NewUpscaleClient(cfg)
	container.Client = upscaleClient

	container.Service = service.NewService(upscaleClient, recordSink, cfg)

	return container, nil
}

func newSink(ctx context.Context, cfg *config.Config, runID uuid.UUID) (sink.Sink, error) {
	switch cfg.Sink.Type {
	case config.SinkPostgres:
		s, err := sink.NewPostgresSink(ctx, cfg.Database, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres sink: %w", err)
		}
		return s, nil
	case config.SinkRedis:
		s, err := sink.NewRedisSink(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis sink: %w", err)
		}
		return s, nil
	default:
		return sink.NewSingerSink(os.Stdout), nil
	}
}

// Run syncs every selected stream of cat
func (c *Container) Run(ctx context.Context, cat *catalog.Catalog) error {
	log.WithField("run_id", c.RunID).Infof("Syncing %d selected streams", len(cat.SelectedStreams()))
	return c.Service.Sync(ctx, cat)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if err := c.Client.Close(); err != nil {
		log.Warnf("Failed to close HTTP client: %v", err)
	}

	return c.Sink.Close()
}
