package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/forcepad/editor"
	"github.com/TFMV/forcepad/server"
	"github.com/TFMV/forcepad/session"
)

func serveCmd() *cobra.Command {
	var (
		port       int
		frameRate  int
		seed       int64
		undirected bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor in the browser",
		Long: `Run the simulation clock and host the canvas page.

  forcepad serve                 # http://localhost:8080
  forcepad serve --port 9000
  forcepad serve --fps 30 --undirected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("fps") {
				cfg.Simulation.FrameRate = frameRate
			}
			if flags.Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if flags.Changed("undirected") {
				cfg.Canvas.Directed = !undirected
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(os.Stderr, cfg)
			ed := editor.New(editorOptions(cfg), logger)
			sess := session.New(ed,
				session.WithFrameRate(cfg.Simulation.FrameRate),
				session.WithMaxFrameDelta(time.Duration(cfg.Simulation.MaxFrameDeltaMS)*time.Millisecond),
				session.WithLogger(logger),
			)
			srv := server.New(sess, server.Config{
				Port:       cfg.Server.Port,
				Width:      cfg.Canvas.Width,
				Height:     cfg.Canvas.Height,
				Background: cfg.Canvas.Background,
			}, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("%s %s\n", Brand.Sprint("forcepad"), Subtle.Sprintf("v%s", version))
			fmt.Printf("  Editor:  %s\n", Good.Sprintf("http://localhost:%d", cfg.Server.Port))
			fmt.Printf("  Frames:  %d/s\n\n", cfg.Simulation.FrameRate)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return sess.Run(ctx) })
			g.Go(func() error { return srv.Start(ctx) })
			return ignoreCanceled(g.Wait())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	cmd.Flags().IntVar(&frameRate, "fps", 60, "Simulation frames per second")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Jitter seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "Draw edges without arrows")

	return cmd
}

// ignoreCanceled treats a shutdown by signal as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
