package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
	"splitmark/internal/kanji"
	"splitmark/internal/ports"
)

// Deps holds the collaborators the tools run against
type Deps struct {
	Resolver *application.Resolver
	Store    ports.ArtifactStore
	Kanji    *kanji.Table
	Splitter domain.SplitterOptions
	Logger   *zap.Logger
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(listVolumesTool(), listVolumesHandler(deps))
	s.AddTool(listPagesTool(), listPagesHandler(deps))
	s.AddTool(deriveSplitsTool(), deriveSplitsHandler(deps))
	s.AddTool(splitterCommandTool(), splitterCommandHandler(deps))
	s.AddTool(normalizeKanjiTool(), normalizeKanjiHandler(deps))
}

// --- list_volumes ---

func listVolumesTool() mcp.Tool {
	return mcp.NewTool("list_volumes",
		mcp.WithDescription("List the volumes of a collection. Reads manifest-index.json, falling back to probing volume0..volume100."),
		mcp.WithString("collection",
			mcp.Description("Collection name (e.g. gagaku)"),
			mcp.Required(),
		),
		mcp.WithBoolean("refresh",
			mcp.Description("Fail instead of falling back to the saved listing when the collection is unreachable"),
		),
	)
}

func listVolumesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListVolumesCommand(deps.Resolver, req.GetString("collection", ""), req.GetBool("refresh", false))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Volumes) == 0 {
			return mcp.NewToolResultText(result.Message), nil
		}
		return formatEntities(result.Volumes, formatVolume)
	}
}

// --- list_pages ---

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("Load a manifest and list its pages with image URLs."),
		mcp.WithString("manifest",
			mcp.Description("Manifest as <collection>/<volume file> (e.g. gagaku/volume1_manifest.json)"),
		),
		mcp.WithString("file",
			mcp.Description("Local manifest file, used instead of manifest"),
		),
		mcp.WithString("size",
			mcp.Description("Image size: thumbnail, medium or full (default thumbnail)"),
		),
	)
}

func listPagesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		size, err := application.ParseSizeClass(req.GetString("size", ""))
		if err != nil {
			return toolError(err)
		}
		loaded, err := loadManifest(ctx, deps, req.GetString("file", ""), req.GetString("manifest", ""))
		if err != nil {
			return toolError(err)
		}
		if len(loaded.Pages) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("%s has no pages.", loaded.Path)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (%d pages)\n", loaded.Path, len(loaded.Pages))
		for _, p := range loaded.Pages {
			fmt.Fprintf(&sb, "%d  %s\n", p.Index, application.ImageURL(p, size))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- derive_splits ---

func deriveSplitsTool() mcp.Tool {
	return mcp.NewTool("derive_splits",
		mcp.WithDescription("Preview the page-range splits produced by a set of title page marks."),
		mcp.WithString("manifest",
			mcp.Description("Manifest as <collection>/<volume file>; its page count bounds the splits"),
		),
		mcp.WithString("file",
			mcp.Description("Local manifest file, used instead of manifest"),
		),
		mcp.WithString("marks",
			mcp.Description("Title pages as P[:N], comma separated (e.g. 3,10:2,15)"),
		),
		mcp.WithString("sidecar",
			mcp.Description("Read marks from an exported title pages sidecar instead"),
		),
	)
}

func deriveSplitsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		marks, _, err := resolveMarks(deps, req)
		if err != nil {
			return toolError(err)
		}
		loaded, err := loadManifest(ctx, deps, req.GetString("file", ""), req.GetString("manifest", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeriveSplitsCommand(len(loaded.Pages), marks).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
		for i, s := range result.Splits {
			fmt.Fprintf(&sb, "%d  %-7s  %s", i, s.Type, s.PageRange())
			if s.Titles > 1 {
				fmt.Fprintf(&sb, "  (%d titles)", s.Titles)
			}
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- splitter_command ---

func splitterCommandTool() mcp.Tool {
	return mcp.NewTool("splitter_command",
		mcp.WithDescription("Build the command line that runs the external manifest splitter."),
		mcp.WithString("manifest",
			mcp.Description("Manifest as <collection>/<volume file> (e.g. gagaku/volume1_manifest.json)"),
		),
		mcp.WithString("file",
			mcp.Description("Local manifest file, used instead of manifest"),
		),
		mcp.WithString("marks",
			mcp.Description("Title pages as P[:N], comma separated"),
		),
		mcp.WithString("sidecar",
			mcp.Description("Read marks from an exported title pages sidecar instead"),
		),
	)
}

func splitterCommandHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		marks, recorded, err := resolveMarks(deps, req)
		if err != nil {
			return toolError(err)
		}
		loaded, manifestPath, err := loadMarked(ctx, deps, req, recorded)
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewSplitterCommandCommand(nil, deps.Splitter, manifestPath, len(loaded.Pages), marks)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Command), nil
	}
}

// --- normalize_kanji ---

func normalizeKanjiTool() mcp.Tool {
	return mcp.NewTool("normalize_kanji",
		mcp.WithDescription("Rewrite traditional kanji to their modern forms (樂→楽, 龍→竜, ...)."),
		mcp.WithString("text",
			mcp.Description("Text to normalize"),
			mcp.Required(),
		),
	)
}

func normalizeKanjiHandler(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")
		if text == "" {
			return toolError(fmt.Errorf("text is required"))
		}
		return mcp.NewToolResultText(deps.Kanji.Normalize(text)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatVolume(v domain.VolumeEntry) string {
	return fmt.Sprintf("%s  %s", v.Filename, v.DisplayName())
}

// loadMarked loads the manifest named by the file or manifest arguments, falling back
// to the one a sidecar recorded. The returned path is the one to record in exports.
func loadMarked(ctx context.Context, deps Deps, req mcp.CallToolRequest, recorded string) (*commands.LoadManifestResult, string, error) {
	ref := req.GetString("manifest", recorded)
	loaded, err := loadManifest(ctx, deps, req.GetString("file", ""), ref)
	if err != nil {
		return nil, "", err
	}
	if ref == "" {
		ref = loaded.Path
	}
	return loaded, ref, nil
}

// loadManifest loads a local file when set, otherwise the <collection>/<volume> ref
func loadManifest(ctx context.Context, deps Deps, file, ref string) (*commands.LoadManifestResult, error) {
	if file != "" {
		return commands.NewLoadLocalManifestCommand(deps.Store, file).Execute(ctx)
	}
	collection, volume, err := commands.SplitManifestRef(ref)
	if err != nil {
		return nil, err
	}
	return commands.NewLoadManifestCommand(deps.Resolver, collection, volume).Execute(ctx)
}

// resolveMarks reads marks from the sidecar argument, or parses the marks argument.
// The second value is the manifest path recorded in the sidecar, if any.
func resolveMarks(deps Deps, req mcp.CallToolRequest) (domain.Marks, string, error) {
	if path := req.GetString("sidecar", ""); path != "" {
		sc, err := deps.Store.ReadSidecar(path)
		if err != nil {
			return domain.Marks{}, "", err
		}
		return sc.Marks(), sc.ManifestFile, nil
	}
	specs := strings.FieldsFunc(req.GetString("marks", ""), func(r rune) bool {
		return r == ',' || r == ' '
	})
	marks, err := application.ParseMarkSpecs(specs)
	return marks, "", err
}
