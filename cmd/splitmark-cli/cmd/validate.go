package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <sidecar>",
	Short: "Check a title pages sidecar",
	Long: `Check that a title pages sidecar matches the format the splitter reads:
a manifest_file, an export_date and title_pages entries with a page of 0
or more and a titles count of 1 or more.

Examples:
  splitmark-cli validate gagaku_volume1_manifest_title_pages.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := svc.Store.ReadSidecar(args[0])
		if err != nil {
			return err
		}
		marks := sc.Marks()
		fmt.Printf("%s: %d title pages, %d titles for %s\n", args[0], marks.Len(), marks.TotalTitles(), sc.ManifestFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
