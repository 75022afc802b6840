package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/project"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve project generation over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/projects/{name}/generate   diagram in, project zip out
  POST /api/notation/parse             diagram in, class model out
  GET  /api/runs                       recent generation runs
  GET  /health

Examples:
  generator serve
  generator serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a := project.New(registry.Default, log)
	opts := server.Options{
		Addr: cfg.Server.Addr,
		Defaults: project.Options{
			OutputRoot: cfg.OutputRoot,
			Project:    cfg.ProjectFor(""),
			VerifyJava: cfg.VerifyJava,
			RunScripts: cfg.RunScripts,
		},
	}
	if store := openHistory(cfg, log); store != nil {
		defer store.Close()
		a.WithRecorder(store)
		opts.Runs = store
	}
	srv := server.New(a, opts, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		return err
	case <-sig:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
