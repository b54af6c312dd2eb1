package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"splitmark/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       "Write the default configuration",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "splitmark.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == "text" {
			outputFormat = "yaml"
		}
		if f := configManager.ConfigFile(); f != "" {
			fmt.Fprintf(os.Stderr, "# %s\n", f)
		}
		return render(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
}
