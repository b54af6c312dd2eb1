package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpadapter "splitmark/internal/adapters/mcp"
	"splitmark/internal/config"
	"splitmark/internal/logging"
	"splitmark/internal/services"
)

func main() {
	cfgFlag := flag.String("config", "", "config file (default: ./splitmark.yaml or ~/.splitmark/splitmark.yaml)")
	flag.Parse()

	cm, err := config.NewManager(*cfgFlag)
	if err != nil {
		log.Fatalf("splitmark-mcp: %v", err)
	}
	cfg := cm.Get()

	// stdout carries the MCP protocol, so logs go to stderr or the configured file
	base, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("splitmark-mcp: %v", err)
	}
	defer base.Sync()
	logger, _ := logging.WithSession(base)

	svc, err := services.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}
	defer svc.Close()

	cm.OnChange(func(next *config.Config) {
		if err := svc.ApplyKanji(next.Kanji); err != nil {
			logger.Warn("kanji table not reloaded", zap.Error(err))
			return
		}
		logger.Info("kanji table reloaded", zap.Int("pairs", svc.Kanji.Len()))
	})
	if cm.ConfigFile() != "" {
		cm.WatchConfig()
	}

	mcpServer := server.NewMCPServer(
		"splitmark-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	deps := mcpadapter.Deps{
		Resolver: svc.Resolver,
		Store:    svc.Store,
		Kanji:    svc.Kanji,
		Splitter: cfg.SplitterOptions(),
		Logger:   logger,
	}
	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
