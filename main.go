package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/config"
	"github.com/olehluchkiv/epwizard/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// fileOnlyLogging marks commands that own the terminal while they run.
const fileOnlyLogging = "logging.file-only"

func main() {
	// Setup signal handling with context cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every sub-command needs once configuration is loaded.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	cleanup func()
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	a := &app{}

	root := &cobra.Command{
		Use:   "epwizard",
		Short: "Add integration endpoints to a Go project",
		Long: `epwizard walks through the options of a catalog component (timer,
kafka, file, http, ...) page by page and records the configured endpoint
in the project, adding the component's Go module to go.mod.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}

			setup := logging.Setup
			if _, ok := cmd.Annotations[fileOnlyLogging]; ok {
				setup = logging.SetupFileOnly
			}
			logger, cleanup, err := setup(cfg.Log.File, level)
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}

			a.cfg, a.logger, a.cleanup = cfg, logger, cleanup
			if cfg.File != "" {
				logger.Debug("config loaded", "file", cfg.File)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./epwizard.yaml or the user config dir)")
	pf.String("log-file", "logs/epwizard.log", "log file path, empty for stderr only")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("catalog-dir", "", "directory of component schemas instead of the built-in catalog")
	pf.String("catalog-url", "", "base URL of a remote component catalog")
	pf.Duration("catalog-timeout", 30*time.Second, "remote catalog request timeout")
	pf.Int("max-fields-per-page", 20, "maximum number of options on one wizard page")

	root.AddCommand(
		newAddEndpointCmd(a),
		newServeCmd(a),
		newComponentsCmd(a),
		newPlanCmd(a),
		newVersionCmd(),
	)
	return root
}

// newCatalogService picks the component source: a remote catalog, a
// directory, or the catalog built into the binary.
func newCatalogService(cfg config.Config, logger *slog.Logger) (catalog.Service, error) {
	switch {
	case cfg.Catalog.URL != "":
		rc := catalog.RemoteConfig{
			Endpoint: cfg.Catalog.URL,
			Token:    cfg.Catalog.Token,
			Timeout:  cfg.Catalog.Timeout,
		}
		logger.Info("using remote catalog", "config", rc)
		return catalog.NewRemoteService(rc, logger), nil
	case cfg.Catalog.Dir != "":
		logger.Info("using catalog directory", "dir", cfg.Catalog.Dir)
		return catalog.LoadDir(cfg.Catalog.Dir)
	default:
		return catalog.Builtin()
	}
}

func (a *app) catalogClient() (*catalog.Client, error) {
	svc, err := newCatalogService(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog.NewClient(svc, a.logger), nil
}
