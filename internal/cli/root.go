// Package cli implements the annotate command line.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	annotate "github.com/swdee/go-annotate"
	"github.com/swdee/go-annotate/config"
)

// options are shared by all subcommands, cfg is loaded before any subcommand
// runs
type options struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// classNames loads the configured class names file, no file gives no names
func (o *options) classNames() ([]string, error) {

	if o.cfg.Classes == "" {
		return nil, nil
	}

	return annotate.LoadClasses(o.cfg.Classes)
}

// NewRootCmd returns the annotate command with all subcommands attached
func NewRootCmd() *cobra.Command {

	opts := &options{}

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Transform YOLO datasets keeping annotations aligned with their images",
		Long: `Annotate applies geometric transforms to images and their YOLO detection or
segmentation labels so every box and polygon stays aligned with the pixels it
marks.

Settings are read from an optional YAML file given with --config, then from
ANNOTATE_ prefixed environment variables and a .env file if present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo

			if opts.verbose {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			cfg, err := config.Load(opts.configPath)

			if err != nil {
				return err
			}

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(
		newTransformCmd(opts),
		newTileCmd(opts),
		newConvertCmd(opts),
		newExportCmd(opts),
		newPreviewCmd(opts),
	)

	return cmd
}
