package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"goksori/internal/config"
	"goksori/internal/util"
	"goksori/pkg/goksori"
)

var (
	version = "dev"
	commit  = "none"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	apiURL     string
	cfg        *config.Config
	client     *goksori.Client
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "goksori-cli",
		Short:         "Query the goksori sentiment API from scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if opts.apiURL != "" {
				cfg.API.BaseURL = opts.apiURL
			}
			logger := util.NewLogger(cfg.Logging.Level, "text", cmd.ErrOrStderr())
			opts.cfg = cfg
			opts.client = goksori.NewClient(cfg.API.BaseURL,
				goksori.WithTimeout(cfg.API.Timeout),
				goksori.WithLogger(logger),
			)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("GOKSORI_CONFIG"), "path to config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "override the API base URL")

	root.AddCommand(
		newStocksCmd(opts),
		newShareCmd(opts),
		newHistoryCmd(opts),
		newArchiveCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "goksori-cli %s (commit: %s)\n", version, commit)
			},
		},
	)
	return root
}

// defaultDataDir is $XDG_DATA_HOME/goksori.
func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, "goksori")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
