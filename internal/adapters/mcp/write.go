package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

// RegisterWriteTools adds all file-writing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	s.AddTool(exportSidecarTool(), exportSidecarHandler(deps))
	s.AddTool(assignMetadataTool(), assignMetadataHandler(deps))
}

// --- export_sidecar ---

func exportSidecarTool() mcp.Tool {
	return mcp.NewTool("export_sidecar",
		mcp.WithDescription("Write the title pages sidecar for a manifest into the output directory."),
		mcp.WithString("manifest",
			mcp.Description("Manifest as <collection>/<volume file>, recorded in the sidecar; every mark must be one of its pages"),
		),
		mcp.WithString("file",
			mcp.Description("Local manifest file, used instead of manifest"),
		),
		mcp.WithString("marks",
			mcp.Description("Title pages as P[:N], comma separated (e.g. 3,10:2,15)"),
			mcp.Required(),
		),
	)
}

func exportSidecarHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		marks, _, err := resolveMarks(deps, req)
		if err != nil {
			return toolError(err)
		}
		loaded, manifestPath, err := loadMarked(ctx, deps, req, "")
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewExportSidecarCommand(deps.Store, manifestPath, len(loaded.Pages), marks)
		cmd.Now = time.Now()
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		deps.Logger.Info("sidecar exported",
			zap.String("path", result.Path),
			zap.Int("title_pages", len(result.Sidecar.TitlePages)))
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- assign_metadata ---

func assignMetadataTool() mcp.Tool {
	return mcp.NewTool("assign_metadata",
		mcp.WithDescription("Attach music metadata to one split and rewrite the music metadata file. All fields empty clears the split."),
		mcp.WithString("manifest",
			mcp.Description("Manifest as <collection>/<volume file>"),
		),
		mcp.WithString("file",
			mcp.Description("Local manifest file, used instead of manifest"),
		),
		mcp.WithString("sidecar",
			mcp.Description("Exported title pages sidecar the splits derive from"),
			mcp.Required(),
		),
		mcp.WithNumber("split",
			mcp.Description("0-based split index"),
			mcp.Required(),
		),
		mcp.WithString("title", mcp.Description("Piece title")),
		mcp.WithString("category", mcp.Description("One of 神楽, 舞楽, 管弦, 歌曲, 催馬楽, 朗詠, 東遊, その他")),
		mcp.WithString("description", mcp.Description("Free text description")),
		mcp.WithString("composer", mcp.Description("Composer")),
		mcp.WithString("period", mcp.Description("Period")),
	)
}

func assignMetadataHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		marks, recorded, err := resolveMarks(deps, req)
		if err != nil {
			return toolError(err)
		}
		loaded, _, err := loadMarked(ctx, deps, req, recorded)
		if err != nil {
			return toolError(err)
		}
		if err := application.ValidateMarksInRange(marks, len(loaded.Pages)); err != nil {
			return toolError(err)
		}

		existing, err := deps.Store.ReadMusicMetadata(deps.Store.MusicMetadataPath())
		if err != nil {
			return toolError(err)
		}
		splits := domain.DeriveSplits(len(loaded.Pages), marks.Snapshot())
		rec := domain.MusicAssignment{
			Title:       req.GetString("title", ""),
			Category:    req.GetString("category", ""),
			Description: req.GetString("description", ""),
			Composer:    req.GetString("composer", ""),
			Period:      req.GetString("period", ""),
		}

		cmd := commands.NewAssignMetadataCommand(deps.Store, existing, len(splits), req.GetInt("split", -1), rec)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + " (" + result.Path + ")"), nil
	}
}
