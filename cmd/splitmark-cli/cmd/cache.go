package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the volume listing cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if svc.Cache == nil {
			return fmt.Errorf("volume cache is not available")
		}
		collections, err := svc.Cache.Collections(cmd.Context())
		if err != nil {
			return err
		}
		if len(collections) == 0 {
			fmt.Println("Cache is empty")
			return nil
		}
		for _, c := range collections {
			fmt.Println(c)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [collection]",
	Short: "Drop cached volume listings",
	Long: `Drop the cached volume listing of one collection, or of every collection
when none is given.

Examples:
  splitmark-cli cache clear gagaku
  splitmark-cli cache clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if svc.Cache == nil {
			return fmt.Errorf("volume cache is not available")
		}
		collection := ""
		if len(args) > 0 {
			collection = args[0]
		}
		if err := svc.Cache.Clear(cmd.Context(), collection); err != nil {
			return err
		}

		if collection == "" {
			fmt.Printf("Cleared all cached volumes (%s)\n", svc.Cache.Path())
		} else {
			fmt.Printf("Cleared cached volumes for %s\n", collection)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
