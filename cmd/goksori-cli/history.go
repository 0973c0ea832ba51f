package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goksori/internal/store"
	"goksori/pkg/goksori"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		days    int
		outPath string
		archive bool
		dataDir string
	)
	cmd := &cobra.Command{
		Use:   "history <code>",
		Short: "Fetch the score history of a stock",
		Long: `Fetch the daily score history of a stock and print it, write it to a
parquet file (--out), or merge it into the local archive (--archive).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			if days <= 0 {
				days = opts.cfg.View.HistoryDays
			}
			points, err := opts.client.GetScoreHistory(cmd.Context(), code, days)
			if err != nil {
				return fmt.Errorf("%s: %w", goksori.UserMessage(err), err)
			}

			out := cmd.OutOrStdout()
			switch {
			case outPath != "":
				if err := store.WriteHistoryFile(outPath, code, points); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				fmt.Fprintf(out, "wrote %d point(s) to %s\n", len(points), outPath)
			case archive:
				ps := store.NewParquetStore(dataDir)
				if err := ps.WriteHistory(cmd.Context(), code, points); err != nil {
					return fmt.Errorf("archiving %s: %w", code, err)
				}
				fmt.Fprintf(out, "archived %d point(s) for %s\n", len(points), code)
			default:
				return printHistory(out, points)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "write to this parquet file, merging with its rows")
	cmd.Flags().BoolVar(&archive, "archive", false, "merge into the local archive")
	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "archive directory")
	return cmd
}

func newArchiveCmd(opts *options) *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "archive [code]",
		Short: "List archived stocks or print one archived history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hs store.HistoryStore = store.NewParquetStore(dataDir)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				codes, err := hs.ListCodes(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range codes {
					fmt.Fprintln(out, c)
				}
				return nil
			}

			points, err := hs.ReadHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printHistory(out, points)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "archive directory")
	return cmd
}

func printHistory(w io.Writer, points []goksori.ScorePoint) error {
	if len(points) == 0 {
		fmt.Fprintln(w, "점수 기록이 없습니다")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSCORE")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.1f\n", p.Date, p.Score)
	}
	return tw.Flush()
}
