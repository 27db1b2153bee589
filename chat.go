package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newsdash/chatcmd"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Add a feed from a natural-language message",
	Long: `Parse a chat message such as

  add rss feed: https://css-tricks.com/feed named CSS-Tricks
  add feed https://go.dev/blog/feed.atom Go Blog

and add the feed it names. The new feed is fetched once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	// Parse before touching the store so plain chatter needs no database.
	parsed, err := chatcmd.Parse(message)
	if errors.Is(err, chatcmd.ErrNoCommand) {
		fmt.Fprintln(out, mutedColor("No feed command detected"))
		return nil
	}
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", errorColor("✗"), err)
		return nil
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.oneShot(cmd.Context())
	if err != nil {
		return err
	}
	defer sched.Stop()

	h := &chatcmd.Handler{Store: a.store, Fetcher: sched}
	res, err := h.Add(cmd.Context(), parsed)
	if err != nil {
		return err
	}
	if res.Queued {
		fmt.Fprintf(out, "%s %s\n", warnColor("•"), res.Message)
		return nil
	}
	fmt.Fprintf(out, "%s %s %s\n", successColor("✓"), res.Message, mutedColor(fmt.Sprintf("[%s, %d articles]", res.Source.Category, res.Articles)))
	return nil
}
