package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"splitmark/internal/application/commands"
)

type volumeRow struct {
	Filename string `json:"filename" yaml:"filename"`
	Volume   int    `json:"volume" yaml:"volume"`
	Label    string `json:"label" yaml:"label"`
	Display  string `json:"display" yaml:"display"`
}

type volumesView struct {
	Collection string      `json:"collection" yaml:"collection"`
	Source     string      `json:"source" yaml:"source"`
	Volumes    []volumeRow `json:"volumes" yaml:"volumes"`
	message    string
}

func (v volumesView) Text() string {
	if len(v.Volumes) == 0 {
		return v.message + "\n"
	}
	var sb strings.Builder
	for _, r := range v.Volumes {
		fmt.Fprintf(&sb, "%-24s %s\n", r.Filename, r.Display)
	}
	return sb.String()
}

var refreshVolumes bool

var volumesCmd = &cobra.Command{
	Use:   "volumes <collection>",
	Short: "List the volumes of a collection",
	Long: `List the volumes of a collection.

The collection's manifest-index.json is read first. When it is missing,
volume0_manifest.json through volume100_manifest.json are probed. The last
good listing is saved and shown only when the collection is unreachable;
--refresh disables that fallback.

Examples:
  splitmark-cli volumes gagaku
  splitmark-cli volumes gagaku --refresh -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewListVolumesCommand(svc.Resolver, args[0], refreshVolumes)
		result, err := listCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		view := volumesView{
			Collection: result.Collection,
			Source:     string(result.Source),
			Volumes:    make([]volumeRow, 0, len(result.Volumes)),
			message:    result.Message,
		}
		for _, v := range result.Volumes {
			view.Volumes = append(view.Volumes, volumeRow{
				Filename: v.Filename,
				Volume:   v.VolumeNumber,
				Label:    v.Label,
				Display:  v.DisplayName(),
			})
		}
		return render(view)
	},
}

func init() {
	rootCmd.AddCommand(volumesCmd)
	volumesCmd.Flags().BoolVar(&refreshVolumes, "refresh", false, "never fall back to the saved listing")
}
