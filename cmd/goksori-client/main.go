package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"goksori/internal/config"
	"goksori/internal/share"
	"goksori/internal/tui"
	"goksori/internal/util"
	"goksori/pkg/goksori"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("GOKSORI_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The alt-screen owns the terminal; log to a dated file instead.
	logFile, err := util.OpenDailyLog("goksori-client", time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := util.NewLogger(cfg.Logging.Level, "text", logFile)
	util.SetDefault(logger)

	client := goksori.NewClient(cfg.API.BaseURL,
		goksori.WithTimeout(cfg.API.Timeout),
		goksori.WithLogger(logger),
	)

	var sdk share.SDK
	if cfg.Share.KakaoAccessToken != "" {
		sdk = share.NewKakaoSDK(cfg.Share.KakaoAccessToken)
	}
	sharer := share.NewAdapter(client, sdk, share.NewOSC52(), cfg.Share.SiteURL, logger)

	logger.Info("starting goksori-client", "api", cfg.API.BaseURL, "kakao", sdk != nil)

	p := tea.NewProgram(
		tui.New(tui.Options{
			API:    client,
			Share:  sharer,
			Open:   share.OpenURL,
			Config: cfg,
			Logger: logger,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
