package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ReplicantCoder9000/projectSoulSync/client"
)

// parseDateFlag accepts RFC 3339 timestamps and bare dates.
func parseDateFlag(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want RFC3339 or YYYY-MM-DD)", v)
	}
	return &t, nil
}

func printEntry(e *client.Entry) {
	fmt.Fprintf(os.Stdout, "%s  [%s]  %s\n", e.ID, e.Mood, e.Title)
	if len(e.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "  tags: %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(os.Stdout, "  date: %s\n", e.Date.Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "  %s\n", e.Content)
}

func newEntriesCmd() *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Manage journal entries",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			mood, _ := cmd.Flags().GetString("mood")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			dateStr, _ := cmd.Flags().GetString("date")

			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			entry, err := c.CreateEntry(ctx, client.CreateEntryRequest{
				Title:   title,
				Content: content,
				Mood:    mood,
				Tags:    tags,
				Date:    date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created %s\n", entry.ID)
			return nil
		},
	}
	addCmd.Flags().StringP("title", "t", "", "Entry title (required)")
	addCmd.Flags().StringP("content", "c", "", "Entry content (required)")
	addCmd.Flags().StringP("mood", "m", "", "Mood (required)")
	addCmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
	addCmd.Flags().String("date", "", "Entry date (defaults to now)")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("content")
	_ = addCmd.MarkFlagRequired("mood")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			mood, _ := cmd.Flags().GetString("mood")
			startStr, _ := cmd.Flags().GetString("start")
			endStr, _ := cmd.Flags().GetString("end")

			start, err := parseDateFlag(startStr)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endStr)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			result, err := c.ListEntries(ctx, client.ListEntriesParams{
				Page:      page,
				Limit:     limit,
				Mood:      mood,
				StartDate: start,
				EndDate:   end,
			})
			if err != nil {
				return err
			}

			for i := range result.Entries {
				printEntry(&result.Entries[i])
			}
			fmt.Fprintf(os.Stdout, "page %d/%d (%d total)\n",
				result.Pagination.Page, result.Pagination.Pages, result.Pagination.Total)
			return nil
		},
	}
	listCmd.Flags().Int("page", 1, "Page (1-indexed)")
	listCmd.Flags().Int("limit", 10, "Entries per page (max 100)")
	listCmd.Flags().StringP("mood", "m", "", "Filter by mood")
	listCmd.Flags().String("start", "", "Inclusive start date")
	listCmd.Flags().String("end", "", "Inclusive end date")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			entry, err := c.GetEntry(ctx, args[0])
			if err != nil {
				return err
			}
			printEntry(entry)
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateEntryRequest
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				req.Title = &v
			}
			if cmd.Flags().Changed("content") {
				v, _ := cmd.Flags().GetString("content")
				req.Content = &v
			}
			if cmd.Flags().Changed("mood") {
				v, _ := cmd.Flags().GetString("mood")
				req.Mood = &v
			}
			if cmd.Flags().Changed("tags") {
				v, _ := cmd.Flags().GetStringSlice("tags")
				req.Tags = v
			}
			if cmd.Flags().Changed("date") {
				v, _ := cmd.Flags().GetString("date")
				t, err := parseDateFlag(v)
				if err != nil {
					return err
				}
				req.Date = t
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			entry, err := c.UpdateEntry(ctx, args[0], req)
			if err != nil {
				return err
			}
			printEntry(entry)
			return nil
		},
	}
	updateCmd.Flags().StringP("title", "t", "", "New title")
	updateCmd.Flags().StringP("content", "c", "", "New content")
	updateCmd.Flags().StringP("mood", "m", "", "New mood")
	updateCmd.Flags().StringSlice("tags", nil, "New tags")
	updateCmd.Flags().String("date", "", "New date")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.DeleteEntry(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}

	entriesCmd.AddCommand(addCmd, listCmd, getCmd, updateCmd, rmCmd)
	return entriesCmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show mood statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			startStr, _ := cmd.Flags().GetString("start")
			endStr, _ := cmd.Flags().GetString("end")

			start, err := parseDateFlag(startStr)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endStr)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			stats, err := c.MoodStats(ctx, start, end)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(os.Stdout, "no entries in range")
				return nil
			}
			for _, s := range stats {
				fmt.Fprintf(os.Stdout, "%-10s %d\n", s.Mood, s.Count)
			}
			return nil
		},
	}
	cmd.Flags().String("start", "", "Inclusive start date")
	cmd.Flags().String("end", "", "Inclusive end date")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll recent entries until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			limit, _ := cmd.Flags().GetInt("limit")

			c, err := newClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := c.Bootstrap(ctx); err != nil {
				return fmt.Errorf("session invalid, log in again: %w", err)
			}

			poller := c.NewPoller(client.PollerConfig{
				Interval: interval,
				Params:   client.ListEntriesParams{Limit: limit},
				OnUpdate: func(page client.EntriesPage) {
					fmt.Fprintf(os.Stdout, "-- %s (%d total) --\n",
						time.Now().Format(time.TimeOnly), page.Pagination.Total)
					for i := range page.Entries {
						e := &page.Entries[i]
						fmt.Fprintf(os.Stdout, "%s  [%s]  %s\n", e.Date.Format("2006-01-02"), e.Mood, e.Title)
					}
				},
				OnError: func(err error) {
					fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
				},
			})

			poller.Start(ctx)
			<-ctx.Done()
			poller.Stop()
			return nil
		},
	}
	cmd.Flags().Duration("interval", 30*time.Second, "Poll interval")
	cmd.Flags().Int("limit", 10, "Entries per poll")
	return cmd
}
