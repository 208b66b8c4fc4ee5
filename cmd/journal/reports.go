package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/insights"
	"github.com/pbaille/journal/internal/themes"
)

func insightsCmd() *cobra.Command {
	var saved bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show weekly themes, sentiment trend and most active day",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			snapshot := j.SavedInsights()
			if !saved {
				if snapshot, err = j.Insights(); err != nil {
					return err
				}
			}

			printInsights(cmd.OutOrStdout(), snapshot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&saved, "saved", false, "show the snapshot saved by the last change instead of recomputing")
	return cmd
}

func printInsights(w io.Writer, snapshot domain.Insights) {
	weekly := "none yet"
	if len(snapshot.WeeklyThemes) > 0 {
		weekly = themeLabels(snapshot.WeeklyThemes)
	}

	fmt.Fprintf(w, "Entries:         %d\n", snapshot.TotalEntries)
	fmt.Fprintf(w, "Weekly themes:   %s\n", weekly)
	fmt.Fprintf(w, "Sentiment trend: %s\n", snapshot.SentimentTrend)
	fmt.Fprintf(w, "Most active day: %s\n", snapshot.MostActiveDay)
}

func reflectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Summarize the past week in a sentence or two",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			text, err := j.Reflection()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard metrics for a recent period",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := j.Dashboard(days)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Last %d days\n", m.Days)
			fmt.Fprintf(w, "  Entries:     %d\n", m.EntriesCount)
			fmt.Fprintf(w, "  Words:       %d\n", m.TotalWords)
			fmt.Fprintf(w, "  Sentiment:   %+.2f (%s)\n", m.AverageSentiment, m.SentimentTrend)
			fmt.Fprintf(w, "  Consistency: %d%%\n", m.ConsistencyScore)

			if len(m.TopThemes) > 0 {
				fmt.Fprintf(w, "  Top themes:\n")
				for _, tc := range m.TopThemes {
					fmt.Fprintf(w, "    %-16s %d\n", themes.Label(tc.Theme), tc.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", insights.DefaultDashboardDays, "number of days to cover")
	return cmd
}

func promptCmd() *cobra.Command {
	var next bool
	var set string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Show the current writing prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			p := j.CurrentPrompt()
			switch {
			case cmd.Flags().Changed("set"):
				p = j.SetPrompt(set)
			case next:
				if p, err = j.NextPrompt(); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&next, "next", false, "draw a new prompt from the latest entry's themes")
	cmd.Flags().StringVar(&set, "set", "", "replace the current prompt")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text]",
		Short: "Score text without saving it (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readContent(cmd, args)
			if err != nil {
				return err
			}

			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			a := j.Analyze(text)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sentiment: %.2f (%s)\n", a.Sentiment.Score, a.Label)
			fmt.Fprintf(w, "  raw %.3f over %d tokens, %d sentiment words\n",
				a.Sentiment.Raw, a.Sentiment.Tokens, a.Sentiment.SentimentWords)
			for _, p := range a.Sentiment.Phrases {
				fmt.Fprintf(w, "  phrase %-22q %+.2f\n", p.Phrase, p.Weight)
			}
			for _, m := range a.Sentiment.Matches {
				note := ""
				if m.Negated {
					note = " negated"
				}
				if m.Multiplier != 1 {
					note += fmt.Sprintf(" x%.1f", m.Multiplier)
				}
				fmt.Fprintf(w, "  word   %-22q %+.2f (%s%s)\n", m.Token, m.Contribution, m.Category, note)
			}
			fmt.Fprintf(w, "Themes:    %s\n", themeLabels(a.Themes))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all entries, insights and the current prompt as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" || output == "-" {
				return j.WriteExport(cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := j.WriteExport(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load entries from an export file (\"-\" for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := j.Import(r, replace)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries. %d in journal.\n",
				res.Imported, res.Insights.TotalEntries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing entries first")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every entry, the saved insights and the current prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This deletes all entries. Type 'yes' to continue: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := j.Reset(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
