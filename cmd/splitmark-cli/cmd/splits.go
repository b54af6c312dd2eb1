package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

type splitsView struct {
	Manifest string             `json:"manifest" yaml:"manifest"`
	Pages    int                `json:"pages" yaml:"pages"`
	Splits   []domain.SplitInfo `json:"splits" yaml:"splits"`
	message  string
}

func (v splitsView) Text() string {
	var sb strings.Builder
	sb.WriteString(v.message)
	sb.WriteByte('\n')
	for i, s := range v.Splits {
		fmt.Fprintf(&sb, "%3d  %-7s  %s", i, s.Type, s.PageRange())
		if s.Titles > 1 {
			fmt.Fprintf(&sb, "  (%d titles)", s.Titles)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var splitsCmd = &cobra.Command{
	Use:   "splits [<collection>/<volume>]",
	Short: "Preview the splits produced by a set of marks",
	Long: `Load a manifest and show how the splitter will cut it.

Pages before the first title page form a leading content split. Each title
page opens a split that runs to the page before the next title page.

Examples:
  splitmark-cli splits gagaku/volume1_manifest.json --mark 3,10
  splitmark-cli splits --sidecar gagaku_volume1_manifest_title_pages.json`,
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

		result, err := commands.NewDeriveSplitsCommand(len(loaded.Pages), marks).Execute(cmd.Context())
		if err != nil {
			return err
		}
		return render(splitsView{
			Manifest: loaded.Path,
			Pages:    len(loaded.Pages),
			Splits:   result.Splits,
			message:  result.Message,
		})
	},
}

var copyCommand bool

var commandCmd = &cobra.Command{
	Use:   "command <manifest>",
	Short: "Print the splitter command line",
	Long: `Print the command line that runs the external manifest splitter on the
exported sidecar. --copy also places it on the clipboard.

Examples:
  splitmark-cli command gagaku/volume1_manifest.json --mark 3,10 --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		marks, recorded, err := resolveMarks()
		if err != nil {
			return err
		}

		loaded, manifestPath, err := loadMarked(cmd.Context(), args, recorded)
		if err != nil {
			return err
		}

		clip := svc.Clipboard
		if !copyCommand {
			clip = nil
		}
		result, err := commands.NewSplitterCommandCommand(clip, cfg.SplitterOptions(), manifestPath, len(loaded.Pages), marks).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(result.Command)
		if copyCommand {
			fmt.Fprintln(os.Stderr, result.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitsCmd)
	addMarkFlags(splitsCmd)
	splitsCmd.Flags().StringVarP(&manifestOpt, "file", "f", "", "local manifest file")

	rootCmd.AddCommand(commandCmd)
	addMarkFlags(commandCmd)
	commandCmd.Flags().StringVarP(&manifestOpt, "file", "f", "", "local manifest file")
	commandCmd.Flags().BoolVar(&copyCommand, "copy", false, "copy the command to the clipboard")
}
