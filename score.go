package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"newsdash/rssfeeds"
	"newsdash/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "List stored articles ranked by keyword score",
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().Int("limit", 20, "number of articles to rank")
	scoreCmd.Flags().Bool("unread", false, "only unread articles")
	scoreCmd.Flags().String("category", "", "only articles from sources in this category")
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	unread, _ := cmd.Flags().GetBool("unread")
	category, _ := cmd.Flags().GetString("category")

	articles, err := a.store.ListArticles(cmd.Context(), types.ArticleFilter{Unread: unread, Category: category, Limit: limit})
	if err != nil {
		return err
	}
	for i := range articles {
		articles[i].Score = float64(rssfeeds.ScoreArticle(&articles[i]))
	}
	sort.SliceStable(articles, func(i, j int) bool { return articles[i].Score > articles[j].Score })

	out := cmd.OutOrStdout()
	printHeader(out, "Articles by score")
	if len(articles) == 0 {
		fmt.Fprintf(out, "  %s\n", mutedColor("No articles"))
	}
	for _, article := range articles {
		printArticle(out, article, true)
	}
	return nil
}
