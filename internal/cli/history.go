package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
	"github.com/ppiankov/grazer/internal/store"
)

var (
	historyPlatform string
	historyLimit    int
	historySince    string
	historyCounts   bool
	historyPrune    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show items recorded by discover --save",
	RunE:  historyAction,
}

func init() {
	historyCmd.Flags().StringVarP(&historyPlatform, "platform", "p", "", "only this platform")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 50, "maximum rows")
	historyCmd.Flags().StringVar(&historySince, "since", "", "time window (e.g. 7d, 48h; default from config)")
	historyCmd.Flags().BoolVar(&historyCounts, "counts", false, "show per-platform totals instead of items")
	historyCmd.Flags().BoolVar(&historyPrune, "prune", false, "delete items older than history.retain_days first")
	rootCmd.AddCommand(historyCmd)
}

func historyAction(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	var name string
	if historyPlatform != "" {
		if historyPlatform == string(platform.Feeds) {
			name = historyPlatform
		} else {
			n, err := platform.ParseName(historyPlatform)
			if err != nil {
				return err
			}
			name = string(n)
		}
	}

	since := a.cfg.History.Since.Duration
	if historySince != "" {
		since, err = parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
	}

	db, err := store.Open(a.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if historyPrune {
		n, err := db.Prune(ctx, a.cfg.History.RetainDays)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d items older than %d days\n", n, a.cfg.History.RetainDays)
	}

	if historyCounts {
		counts, err := db.Counts(ctx)
		if err != nil {
			return err
		}
		printHistoryCounts(os.Stdout, counts)
		return nil
	}

	items, err := db.Recent(ctx, store.Filter{
		Platform: name,
		Since:    time.Now().Add(-since),
		Limit:    historyLimit,
	})
	if err != nil {
		return err
	}
	printHistory(os.Stdout, items, since)
	return nil
}

func printHistory(w io.Writer, items []store.Item, since time.Duration) {
	if len(items) == 0 {
		fmt.Fprintf(w, "No items seen in the last %s. Run 'grazer discover --save' first.\n", formatWindow(since))
		return
	}
	fmt.Fprintf(w, "%d items seen in the last %s\n\n", len(items), formatWindow(since))
	for _, it := range items {
		fmt.Fprintf(w, "  [%s] %s\n", it.Platform, it.Title)
		detail := fmt.Sprintf("seen %dx, last %s", it.SeenCount, it.LastSeen.Local().Format("2006-01-02 15:04"))
		if it.Author != "" {
			detail = "by " + it.Author + " | " + detail
		}
		fmt.Fprintf(w, "    %s\n", detail)
		if it.URL != "" {
			fmt.Fprintf(w, "    %s\n", it.URL)
		}
	}
}

func printHistoryCounts(w io.Writer, counts []store.PlatformCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "History is empty.")
		return
	}
	total := 0
	for _, c := range counts {
		total += c.Items
	}
	fmt.Fprintf(w, "%d items from %d platforms\n\n", total, len(counts))
	for _, c := range counts {
		fmt.Fprintf(w, "  %-14s %5d  last %s\n", c.Platform, c.Items, c.LastSeen.Local().Format("2006-01-02 15:04"))
	}
}

func formatWindow(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 48 && hours%24 == 0 {
		return fmt.Sprintf("%d days", hours/24)
	}
	return fmt.Sprintf("%dh", hours)
}
