package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"upscale/tap/internal/catalog"
	"upscale/tap/internal/config"
	"upscale/tap/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type tapFlags struct {
	Config   string
	Catalog  string
	State    string
	Discover bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("Tap exited with error: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var flags tapFlags

	cmd := &cobra.Command{
		Use:           "tap-sap-upscale",
		Short:         "Extract SAP Upscale catalog data as Singer messages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Config, "config", "c", "", "path to the JSON config file")
	cmd.Flags().StringVar(&flags.Catalog, "catalog", "", "path to a catalog with stream selections")
	cmd.Flags().StringVar(&flags.State, "state", "", "path to a state file (accepted, not used)")
	cmd.Flags().BoolVarP(&flags.Discover, "discover", "d", false, "print the catalog and exit")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func run(ctx context.Context, flags tapFlags) error {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	if flags.Discover {
		cat, err := catalog.Discover()
		if err != nil {
			return err
		}
		return cat.Dump(os.Stdout)
	}

	cat, err := loadCatalog(flags.Catalog)
	if err != nil {
		return err
	}
	if flags.State != "" {
		log.Debugf("Ignoring state file %s, every run is a full sync", flags.State)
	}

	log.Info("🚀 Starting Upscale tap...")

	app, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warnf("Failed to close container: %v", err)
		}
	}()

	if err := app.Run(ctx, cat); err != nil {
		return err
	}

	log.Info("✅ Sync finished successfully")
	return nil
}

// loadCatalog reads the catalog at path, or selects every stream when no path is given
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Discover()
	}
	return catalog.Load(path)
}
