package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var (
	statusPlatform string
	statusFormat   string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check platform health and reachability",
	RunE:  statusAction,
}

func init() {
	statusCmd.Flags().StringVarP(&statusPlatform, "platform", "p", "all", "platform name or all")
	statusCmd.Flags().StringVar(&statusFormat, "format", "terminal", "output format: terminal, json")
	rootCmd.AddCommand(statusCmd)
}

func statusAction(cmd *cobra.Command, _ []string) error {
	var names []platform.Name
	if statusPlatform != "" && statusPlatform != "all" {
		name, err := platform.ParseName(statusPlatform)
		if err != nil {
			return err
		}
		names = []platform.Name{name}
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
	results := a.client.Status(ctx, names...)
	for i := range results {
		results[i].Error = Redact(results[i].Error)
	}

	switch statusFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "terminal", "":
		printStatus(os.Stdout, results)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want terminal or json)", statusFormat)
	}
}

func printStatus(w io.Writer, results []platform.PlatformStatus) {
	fmt.Fprintf(w, "Platform Status\n\n")
	up := 0
	for _, st := range results {
		mark := "DOWN"
		if st.OK {
			mark = " UP "
			up++
		}
		auth := "---"
		if st.HasCredential {
			auth = "key"
		}
		line := fmt.Sprintf("  [%s] %-14s %6dms  [%s]", mark, st.Platform, st.Latency.Milliseconds(), auth)
		switch {
		case st.Error != "":
			line += "  " + st.Error
		case st.Note != "":
			line += "  " + st.Note
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n  %d/%d platforms reachable\n", up, len(results))
}
