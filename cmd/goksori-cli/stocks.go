package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goksori/internal/dashboard"
	"goksori/internal/view"
	"goksori/pkg/goksori"
)

func newStocksCmd(opts *options) *cobra.Command {
	var (
		page    int
		sortKey string
		search  string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "Print one page of the stock list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortKey == "" {
				sortKey = opts.cfg.View.DefaultSort
			}
			st := view.New(opts.cfg.View.PageSize, dashboard.SortScoreDesc)
			req := st.Query(page, dashboard.ParseSortMode(sortKey), search)

			var resp *goksori.StockPage
			fetch := func(ctx context.Context, p goksori.ListParams) (*goksori.StockPage, error) {
				var err error
				resp, err = opts.client.ListStocks(ctx, p)
				return resp, err
			}
			if _, err := st.Load(cmd.Context(), fetch, req); errors.Is(err, view.ErrPageOutOfRange) {
				return err
			} else if err != nil {
				return fmt.Errorf("%s: %w", goksori.UserMessage(err), err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			stocks := st.Stocks()
			if len(stocks) == 0 {
				fmt.Fprintln(out, "검색 결과가 없습니다")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tCODE\tNAME\tSCORE\tCHANGE\tTREND\tGRADE")
			for i, s := range stocks {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					st.Rank(i), s.Code, s.Name,
					dashboard.FormatScore(s.Score),
					dashboard.FormatChange(s.ScoreChange),
					dashboard.TrendLabel(s.Trend),
					s.Grade)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			sum := st.Summary()
			fmt.Fprintf(out, "\n전체 %s · 과열 %s · 침체 %s · 평균 %s\n",
				dashboard.FormatInt(sum.Total),
				dashboard.FormatCount(sum.Hot),
				dashboard.FormatCount(sum.Cold),
				dashboard.FormatAverage(sum))
			if p := st.Pagination(); !p.Hidden {
				fmt.Fprintf(out, "%d / %d 페이지\n", p.Page, p.TotalPages)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort mode: score_desc, score_asc, name, trend_up, trend_down")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw API page as JSON")
	return cmd
}
