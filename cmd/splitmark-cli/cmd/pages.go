package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"splitmark/internal/application"
)

type pageRow struct {
	Index int    `json:"index" yaml:"index"`
	URL   string `json:"url" yaml:"url"`
}

type pagesView struct {
	Manifest string    `json:"manifest" yaml:"manifest"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Pages    []pageRow `json:"pages" yaml:"pages"`
}

func (v pagesView) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d pages\n", v.Manifest, len(v.Pages))
	for _, p := range v.Pages {
		fmt.Fprintf(&sb, "%4d  %s\n", p.Index, p.URL)
	}
	return sb.String()
}

var (
	pageSize string
	viewPage int
)

var pagesCmd = &cobra.Command{
	Use:   "pages [<collection>/<volume>]",
	Short: "List the pages of a manifest",
	Long: `Load a manifest and list its pages with image URLs.

Examples:
  splitmark-cli pages gagaku/volume1_manifest.json
  splitmark-cli pages --file ./scan_manifest.json --size full
  splitmark-cli pages gagaku/volume1_manifest.json --view 12`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := application.ParseSizeClass(pageSize)
		if err != nil {
			return err
		}
		loaded, err := loadManifest(cmd.Context(), manifestRef(args, ""))
		if err != nil {
			return err
		}

		if viewPage > 0 {
			if viewPage > len(loaded.Pages) {
				return fmt.Errorf("page %d out of range (1-%d)", viewPage, len(loaded.Pages))
			}
			if err := svc.Viewer.Open(loaded.Pages[viewPage-1], size); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Opened page %d\n", viewPage)
			return nil
		}

		view := pagesView{
			Manifest: loaded.Path,
			Label:    loaded.Label,
			Pages:    make([]pageRow, 0, len(loaded.Pages)),
		}
		for _, p := range loaded.Pages {
			view.Pages = append(view.Pages, pageRow{Index: p.Index, URL: application.ImageURL(p, size)})
		}
		return render(view)
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.Flags().StringVarP(&manifestOpt, "file", "f", "", "local manifest file")
	pagesCmd.Flags().StringVar(&pageSize, "size", "thumbnail", "image size: thumbnail, medium or full")
	pagesCmd.Flags().IntVar(&viewPage, "view", 0, "open page N (1-based) in the browser instead of listing")
}
