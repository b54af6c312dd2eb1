package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"splitmark/internal/adapters/filesystem"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

type exportView struct {
	Path    string                   `json:"path" yaml:"path"`
	Sidecar domain.TitlePagesSidecar `json:"sidecar" yaml:"sidecar"`
	message string
}

func (v exportView) Text() string { return v.message + "\n" }

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export <manifest>",
	Short: "Export a title pages sidecar",
	Long: `Write the title pages sidecar for a manifest.

The manifest is loaded first and every mark must name one of its pages.
Its path is recorded in the sidecar as given, usually <collection>/<volume>
or a local file name. The sidecar is written to the
configured output directory as <manifest>_title_pages.json.

Examples:
  splitmark-cli export gagaku/volume1_manifest.json --mark 3 --mark 10:2
  splitmark-cli export gagaku/volume1_manifest.json -m 3,10:2 --out ./splits
  splitmark-cli export --file vol_03.json -m 0,12`,
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

		var store ports.ArtifactStore = svc.Store
		if exportDir != "" {
			store = filesystem.NewStore(exportDir, cfg.Splitter.MusicMetadata)
		}

		exportCmd := commands.NewExportSidecarCommand(store, manifestPath, len(loaded.Pages), marks)
		exportCmd.Now = time.Now()
		result, err := exportCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		return render(exportView{Path: result.Path, Sidecar: result.Sidecar, message: result.Message})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addMarkFlags(exportCmd)
	exportCmd.Flags().StringVarP(&manifestOpt, "file", "f", "", "local manifest file")
	exportCmd.Flags().StringVar(&exportDir, "out", "", "output directory (default: output_dir from config)")
}
