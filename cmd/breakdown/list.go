package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bilgisen/breakdown/internal/bootstrap"
	"github.com/bilgisen/breakdown/internal/present"
	"github.com/bilgisen/breakdown/internal/query"
)

var listOpts query.Options

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one window of headlines, newest first",
	Long: "list prints the articles matching the filters. A store failure is logged " +
		"and shows up as an empty list, the same way the site renders it.",
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listOpts.Category, "category", "", "section to show (default all)")
	listCmd.Flags().StringVar(&listOpts.OpinionType, "opinion-type", "", "opinion column (dear_gabby, dear_guy, guys_world)")
	listCmd.Flags().StringVarP(&listOpts.Search, "search", "s", "", "headline or body text to look for")
	listCmd.Flags().IntVarP(&listOpts.Limit, "limit", "n", 0, "articles per window (default PAGE_SIZE)")
	listCmd.Flags().IntVar(&listOpts.Offset, "offset", 0, "articles to skip")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := setup("stderr")
	if err != nil {
		return err
	}

	app, err := bootstrap.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	opts := listOpts
	if opts.Limit <= 0 {
		opts.Limit = cfg.PageSize
	}

	items := app.Content.FetchArticles(cmd.Context(), opts)
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No articles found.")
		return nil
	}

	format := present.NewFormatter(cfg.Location())
	for _, a := range items {
		fmt.Fprintf(out, "%-20s %-14s %s  [%s]\n", format.Date(a.CreatedAt), a.Category, a.Headline, a.ID)
	}
	return nil
}
