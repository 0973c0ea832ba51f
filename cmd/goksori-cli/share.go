package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goksori/internal/dashboard"
	"goksori/internal/share"
	"goksori/pkg/goksori"
)

func newShareCmd(opts *options) *cobra.Command {
	var (
		copyText bool
		link     bool
	)
	cmd := &cobra.Command{
		Use:   "share <code>",
		Short: "Print the share text of a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			out := cmd.OutOrStdout()

			text := dashboard.StockURL(opts.cfg.Share.SiteURL, code)
			if !link {
				p, err := opts.client.GetShare(cmd.Context(), code)
				if err != nil {
					return fmt.Errorf("%s: %w", goksori.UserMessage(err), err)
				}
				text = p.ShareText
			}
			fmt.Fprintln(out, text)

			if copyText {
				if err := share.NewOSC52().WriteText(text); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyText, "copy", false, "also copy to the terminal clipboard (OSC 52)")
	cmd.Flags().BoolVar(&link, "link", false, "print the deep link instead of the share text")
	return cmd
}
