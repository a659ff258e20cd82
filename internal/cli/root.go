package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/config"
	"github.com/whiscribe/whiscribe/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config

	// where cfg was looked up, and whether a file was there
	cfgPath   string
	cfgExists bool
)

var rootCmd = &cobra.Command{
	Use:   "whiscribe",
	Short: "Play local media with synchronized subtitles",
	Long: `Whiscribe lists the audio and video files in a folder and plays them
with the captions from a matching .srt file next to each one.

It also converts SRT subtitles to WebVTT caption tracks and can pull
embedded subtitle streams out of video files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		if skipConfigLoad(cmd) {
			cfg = nil
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg, cfgPath, cfgExists = loaded, path, exists

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		configured, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		logger = configured

		logger.Debugw("Loaded configuration",
			"path", path,
			"exists", exists,
		)
		return nil
	},
}

// Execute runs the command line; an interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func skipConfigLoad(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
