package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"newsdash/types"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	mutedColor   = color.New(color.FgHiBlack).SprintFunc()
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n\n", headerColor("=== "+title+" ==="))
}

func printSource(w io.Writer, src types.Source) {
	status := successColor("●")
	if !src.Active {
		status = mutedColor("○")
	}
	last := "never"
	if src.LastFetched != nil {
		last = src.LastFetched.Local().Format(time.DateTime)
	}
	fmt.Fprintf(w, "  %s %3d  %-28s %-12s %s\n", status, src.ID, src.Name, src.Category, mutedColor(src.URL))
	fmt.Fprintf(w, "         %s\n", mutedColor("last fetched: "+last))
}

func printArticle(w io.Writer, a types.Article, withScore bool) {
	marker := " "
	if !a.IsRead {
		marker = warnColor("•")
	}
	if a.IsSaved {
		marker = successColor("★")
	}
	prefix := ""
	if withScore {
		prefix = fmt.Sprintf("%s ", headerColor(fmt.Sprintf("[%2.0f]", a.Score)))
	}
	fmt.Fprintf(w, "  %s %s%s\n", marker, prefix, a.Title)
	fmt.Fprintf(w, "      %s\n", mutedColor(fmt.Sprintf("%s · %d min read · %s", a.Source, a.ReadTime, a.URL)))
}
