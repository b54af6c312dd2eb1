package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"splitmark/internal/adapters/tui"
	"splitmark/internal/adapters/tui/views"
	"splitmark/internal/config"
	"splitmark/internal/logging"
	"splitmark/internal/services"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default: ./splitmark.yaml or $HOME/.splitmark/splitmark.yaml)")
	flag.Parse()

	cm, err := config.NewManager(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := cm.Get()

	// The terminal belongs to the UI, so logs only go to a file
	logger, err := logging.ForTUI(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger, _ = logging.WithSession(logger)

	svc, err := services.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	if cm.ConfigFile() != "" {
		cm.OnChange(func(c *config.Config) {
			if err := svc.ApplyKanji(c.Kanji); err != nil {
				logger.Warn("kanji table not reloaded", zap.Error(err))
			}
		})
		cm.WatchConfig()
	}

	deps := views.Deps{
		Resolver:    svc.Resolver,
		Store:       svc.Store,
		Clipboard:   svc.Clipboard,
		Viewer:      svc.Viewer,
		Splitter:    cfg.SplitterOptions(),
		Collections: cfg.Collections,
	}
	app := tui.NewApp(deps, svc.Editor, logger)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
