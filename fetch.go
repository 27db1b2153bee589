package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"newsdash/orchestrator"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one fetch pass over all active sources and exit",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.oneShot(ctx)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	res, err := sched.Trigger(ctx, orchestrator.TriggerManual)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Fetch complete")
	fmt.Fprintf(out, "  %s in %s\n\n", successColor(fmt.Sprintf("Fetched %d new articles", res.Count())), res.Duration.Round(time.Millisecond))
	for _, article := range res.Articles {
		printArticle(out, article, false)
	}
	return nil
}
