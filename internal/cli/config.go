package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Create a sample configuration file",
	Annotations: map[string]string{"skipConfigLoad": "true"},
	RunE:        runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().
		StringP("path", "p", "", "Destination for the configuration file")
	configInitCmd.Flags().
		Bool("overwrite", false, "Overwrite existing configuration if present")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	targetPath, _ := cmd.Flags().GetString("path")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	target := strings.TrimSpace(targetPath)
	if target == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("determine default config path: %w", err)
		}
		target = defaultPath
	} else {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		target = expanded
	}

	if err := config.CreateSample(target, overwrite); err != nil {
		if _, statErr := os.Stat(target); statErr == nil && !overwrite {
			return fmt.Errorf("%w (use --overwrite to replace it)", err)
		}
		return fmt.Errorf("create sample config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	encoded, err := cfg.Encode()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfgExists {
		fmt.Fprintf(out, "# %s\n", cfgPath)
	} else {
		fmt.Fprintf(out, "# %s (not present, defaults shown)\n", cfgPath)
	}
	fmt.Fprint(out, encoded)
	return nil
}
