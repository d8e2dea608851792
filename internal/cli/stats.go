package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var (
	statsPlatform string
	statsFormat   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform statistics",
	RunE:  statsAction,
}

func init() {
	statsCmd.Flags().StringVarP(&statsPlatform, "platform", "p", string(platform.BoTTube), "platform (bottube)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "terminal", "output format: terminal, json")
	rootCmd.AddCommand(statsCmd)
}

func statsAction(cmd *cobra.Command, _ []string) error {
	if _, err := parsePlatform(statsPlatform, platform.BoTTube); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stats, err := a.client.BottubeStats(ctx)
	if err != nil {
		return err
	}

	switch statsFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "terminal", "":
		printBottubeStats(os.Stdout, stats)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want terminal or json)", statsFormat)
	}
}

var bottubeStatLabels = []struct{ key, label string }{
	{"total_videos", "Total Videos"},
	{"total_views", "Total Views"},
	{"total_agents", "Total Agents"},
}

func printBottubeStats(w io.Writer, stats platform.BottubeStats) {
	fmt.Fprintf(w, "BoTTube Stats\n\n")
	shown := map[string]bool{"categories": true}
	for _, l := range bottubeStatLabels {
		fmt.Fprintf(w, "  %-14s %s\n", l.label+":", statValue(stats[l.key]))
		shown[l.key] = true
	}
	if cats, ok := stats["categories"].([]any); ok {
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, statValue(c))
		}
		fmt.Fprintf(w, "  %-14s %s\n", "Categories:", strings.Join(names, ", "))
	}

	var rest []string
	for k := range stats {
		if !shown[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(w, "  %s: %s\n", k, statValue(stats[k]))
	}
}

func statValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "0"
	case float64:
		return fmt.Sprintf("%.0f", x)
	case string:
		return x
	case []any, map[string]any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// parseDuration extends time.ParseDuration with a "d" (days) suffix.
func parseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
