package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

var (
	markSpecs   []string
	sidecarPath string
	manifestOpt string
)

// addMarkFlags registers --mark and --sidecar on a command
func addMarkFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&markSpecs, "mark", "m", nil, "title page as P[:N] (0-based page, N titles, repeatable)")
	c.Flags().StringVarP(&sidecarPath, "sidecar", "s", "", "read marks from an exported title pages sidecar")
	c.MarkFlagsMutuallyExclusive("mark", "sidecar")
}

// resolveMarks returns the marks from --sidecar or --mark, plus the manifest path a sidecar records
func resolveMarks() (domain.Marks, string, error) {
	if sidecarPath != "" {
		sc, err := svc.Store.ReadSidecar(sidecarPath)
		if err != nil {
			return domain.Marks{}, "", err
		}
		return sc.Marks(), sc.ManifestFile, nil
	}
	marks, err := application.ParseMarkSpecs(markSpecs)
	return marks, "", err
}

// manifestRef picks the manifest argument, falling back to the one a sidecar recorded
func manifestRef(args []string, recorded string) string {
	if len(args) > 0 {
		return args[0]
	}
	return recorded
}

// loadMarked loads the manifest a set of marks refers to. The returned path is
// the one to record: the argument, then the sidecar's, then the loaded file's.
func loadMarked(ctx context.Context, args []string, recorded string) (*commands.LoadManifestResult, string, error) {
	ref := manifestRef(args, recorded)
	loaded, err := loadManifest(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	if ref == "" {
		ref = loaded.Path
	}
	return loaded, ref, nil
}

// loadManifest loads --file when set, otherwise the <collection>/<volume> ref
func loadManifest(ctx context.Context, ref string) (*commands.LoadManifestResult, error) {
	if manifestOpt != "" {
		return commands.NewLoadLocalManifestCommand(svc.Store, manifestOpt).Execute(ctx)
	}
	collection, volume, err := commands.SplitManifestRef(ref)
	if err != nil {
		return nil, err
	}
	return commands.NewLoadManifestCommand(svc.Resolver, collection, volume).Execute(ctx)
}
