package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/insights"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/themes"
)

func addCmd() *cobra.Command {
	var aiPrompt string
	var writingTime int

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a new entry (reads stdin when no content is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, args)
			if err != nil {
				return err
			}

			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := j.Add(journal.NewEntry{
				Content:     content,
				AIPrompt:    aiPrompt,
				WritingTime: writingTime,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Added entry: %s\n", shortID(out.Entry.ID))
			fmt.Fprintf(w, "Sentiment: %.2f (%s)\n", out.Entry.Sentiment, insights.Label(out.Entry.Sentiment))
			fmt.Fprintf(w, "Themes:    %s\n", themeLabels(out.Entry.Themes))
			fmt.Fprintf(w, "\nNext prompt: %s\n", out.Prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&aiPrompt, "prompt", "", "prompt answered by this entry (defaults to the current prompt)")
	cmd.Flags().IntVar(&writingTime, "writing-time", 0, "seconds spent writing")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int
	var q insights.Query

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := j.Search(q)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries yet. Use 'journal add' to create one.")
				return nil
			}

			printEntries(cmd.OutOrStdout(), entries, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&q.Text, "query", "q", "", "only entries containing this text")
	cmd.Flags().StringVar(&q.Theme, "theme", "", "only entries with this theme")
	cmd.Flags().StringVar(&q.Range, "range", insights.RangeAll, "time range: all, week, month, quarter")
	cmd.Flags().StringVar(&q.Sort, "sort", insights.SortDate, "order: date, sentiment, length")
	return cmd
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries by content, theme or prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			query := strings.Join(args, " ")
			entries, err := j.Search(insights.Query{Text: query})
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries matching %q\n", query)
				return nil
			}

			printEntries(cmd.OutOrStdout(), entries, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func showCmd() *cobra.Command {
	var related int

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := j.Get(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:        %s\n", entry.ID)
			fmt.Fprintf(w, "Created:   %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
			if entry.LastModified != nil {
				fmt.Fprintf(w, "Modified:  %s\n", entry.LastModified.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(w, "Sentiment: %.2f (%s)\n", entry.Sentiment, insights.Label(entry.Sentiment))
			fmt.Fprintf(w, "Themes:    %s\n", themeLabels(entry.Themes))
			fmt.Fprintf(w, "Words:     %d\n", entry.WordCount)
			if entry.AIPrompt != "" {
				fmt.Fprintf(w, "Prompt:    %s\n", entry.AIPrompt)
			}
			fmt.Fprintf(w, "Content:\n%s\n", entry.Content)

			if related <= 0 {
				return nil
			}
			similar, err := j.Related(entry.ID, related)
			if err != nil {
				return err
			}
			if len(similar) > 0 {
				fmt.Fprintf(w, "\nRelated:\n")
				for _, r := range similar {
					fmt.Fprintf(w, "  %s  %.2f  %s\n", shortID(r.Entry.ID), r.Similarity, truncate(r.Entry.Content, 50))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&related, "related", 3, "number of related entries to show")
	return cmd
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id] [content]",
		Short: "Replace an entry's content (reads stdin when no content is given)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, args[1:])
			if err != nil {
				return err
			}

			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := j.Update(args[0], content)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Updated entry: %s\n", shortID(out.Entry.ID))
			fmt.Fprintf(w, "Sentiment: %.2f (%s)\n", out.Entry.Sentiment, insights.Label(out.Entry.Sentiment))
			fmt.Fprintf(w, "Themes:    %s\n", themeLabels(out.Entry.Themes))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			snapshot, err := j.Delete(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted. %d entries left.\n", snapshot.TotalEntries)
			return nil
		},
	}
}

func printEntries(w io.Writer, entries []domain.Entry, limit int) {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %+.2f  %-15s  %s\n",
			shortID(e.ID), e.Date, e.Sentiment, e.DominantTheme(), truncate(e.Content, 50))
	}
}

func themeLabels(tags []string) string {
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = themes.Label(t)
	}
	return strings.Join(labels, ", ")
}
