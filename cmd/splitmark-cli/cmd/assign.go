package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

var (
	assignSplit  int
	assignRecord domain.MusicAssignment
)

var assignCmd = &cobra.Command{
	Use:   "assign [<collection>/<volume>]",
	Short: "Attach music metadata to a split",
	Long: fmt.Sprintf(`Attach music metadata to one split and rewrite the music metadata file
passed to the splitter's -m flag. Splits are derived from the sidecar's
title pages over the manifest's page count. Leaving every field empty
clears the split.

Categories: %v

Examples:
  splitmark-cli assign --sidecar gagaku_volume1_manifest_title_pages.json --split 1 --title 納曾利 --category 舞楽
  splitmark-cli assign gagaku/volume1_manifest.json -m 3,10 --split 2 --composer 狛光高`, domain.Categories),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		marks, recorded, err := resolveMarks()
		if err != nil {
			return err
		}
		loaded, err := loadManifest(cmd.Context(), manifestRef(args, recorded))
		if err != nil {
			return err
		}
		if err := application.ValidateMarksInRange(marks, len(loaded.Pages)); err != nil {
			return err
		}
		existing, err := svc.Store.ReadMusicMetadata(svc.Store.MusicMetadataPath())
		if err != nil {
			return err
		}

		splits := domain.DeriveSplits(len(loaded.Pages), marks.Snapshot())
		assignCmd := commands.NewAssignMetadataCommand(svc.Store, existing, len(splits), assignSplit, assignRecord)
		result, err := assignCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", result.Message, result.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
	addMarkFlags(assignCmd)
	assignCmd.Flags().StringVarP(&manifestOpt, "file", "f", "", "local manifest file")
	assignCmd.Flags().IntVar(&assignSplit, "split", -1, "0-based split index")
	assignCmd.Flags().StringVar(&assignRecord.Title, "title", "", "piece title")
	assignCmd.Flags().StringVar(&assignRecord.Category, "category", "", "piece category")
	assignCmd.Flags().StringVar(&assignRecord.Description, "description", "", "description")
	assignCmd.Flags().StringVar(&assignRecord.Composer, "composer", "", "composer")
	assignCmd.Flags().StringVar(&assignRecord.Period, "period", "", "period")
	_ = assignCmd.MarkFlagRequired("split")
}
