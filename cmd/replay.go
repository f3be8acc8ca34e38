package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/TFMV/forcepad/editor"
	"github.com/TFMV/forcepad/models"
	"github.com/TFMV/forcepad/render"
	"github.com/TFMV/forcepad/script"
)

func replayCmd() *cobra.Command {
	var (
		format   string
		output   string
		dt       float64
		seed     int64
		settle   int
		fit      bool
		labels   bool
		colorize bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a recorded session and render the result",
		Long: `Feed a JSON or CSV event script through the editor without a browser,
then render the final frame.

  forcepad replay session.json                   # ASCII to stdout
  forcepad replay session.csv -f svg -o out.svg
  forcepad replay session.json --settle 600 --fit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if dt < 0 {
				return errors.Errorf("--dt %v must not be negative", dt)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read script")
			}
			sc, err := script.Load(args[0], data)
			if err != nil {
				return err
			}

			logger := newLogger(os.Stderr, cfg)
			ed := editor.New(editorOptions(cfg), logger)
			logger.Info("replaying script", "script", sc.Name, "steps", len(sc.Steps))

			snap, err := script.Play(ed, sc, dt, func(s models.Snapshot) error {
				logger.Debug("frame", "frame", s.Frame, "nodes", len(s.Nodes), "edges", len(s.Edges))
				return nil
			})
			if err != nil {
				return err
			}
			for range settle {
				snap = ed.Frame(dt)
			}

			options := render.NewDefaultOptions(format)
			options.Width = cfg.Canvas.Width
			options.Height = cfg.Canvas.Height
			options.Background = cfg.Canvas.Background
			options.Fit = fit
			options.ShowLabels = labels
			options.Color = colorize && output == ""

			out, err := render.GenerateWithOptions(&snap, options)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return errors.Wrap(err, "write output")
			}
			fmt.Printf("  %s %s (%d nodes, %d edges, frame %d)\n",
				Good.Sprint("wrote"), output, len(snap.Nodes), len(snap.Edges), snap.Frame)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "ascii", "Output format (svg, ascii, json, dot)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "Seconds simulated per frame")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Jitter seed (overrides the config seed)")
	cmd.Flags().IntVar(&settle, "settle", 0, "Extra frames to simulate after the script ends")
	cmd.Flags().BoolVar(&fit, "fit", false, "Frame the output around the nodes")
	cmd.Flags().BoolVar(&labels, "labels", false, "Show node ids")
	cmd.Flags().BoolVar(&colorize, "color", false, "Colorize ASCII output")

	return cmd
}
