package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/prefs"
)

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light|toggle|reset]",
	Short: "Show or change the display theme",
	Long: `Show or change the saved display theme used for tables.

Without a saved choice the theme follows WHISCRIBE_THEME, then the
terminal's background color, and is light otherwise.

Examples:
  whiscribe theme
  whiscribe theme dark
  whiscribe theme toggle
  whiscribe theme reset`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle", "reset"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func runTheme(cmd *cobra.Command, args []string) error {
	store := prefs.Open(cfg.Paths.StateDir)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		dark, origin, err := store.DarkMode()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s)\n", themeName(dark), origin)
		return nil
	}

	var (
		dark bool
		err  error
	)
	switch strings.ToLower(args[0]) {
	case "dark":
		dark = true
		err = store.SetDarkMode(true)
	case "light":
		err = store.SetDarkMode(false)
	case "toggle":
		dark, err = store.Toggle()
	case "reset":
		if err := store.Reset(); err != nil {
			return err
		}
		dark, origin, err := store.DarkMode()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s)\n", themeName(dark), origin)
		return nil
	default:
		return fmt.Errorf("unknown theme %q: use dark, light, toggle, or reset", args[0])
	}
	if err != nil {
		return err
	}

	logger.Debugw("Saved display preference",
		"dark_mode", dark,
		"path", store.Path(),
	)
	fmt.Fprintf(out, "%s (%s)\n", themeName(dark), prefs.OriginSaved)
	return nil
}
