package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/digest"
	"github.com/ppiankov/grazer/internal/discover"
	"github.com/ppiankov/grazer/internal/platform"
)

var (
	searchPlatform string
	searchLimit    int
	searchFormat   string
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search BoTTube or YouTube",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchAction,
}

func init() {
	searchCmd.Flags().StringVarP(&searchPlatform, "platform", "p", string(platform.BoTTube), "bottube or youtube")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10, "result limit")
	searchCmd.Flags().StringVar(&searchFormat, "format", "terminal", "output format: terminal, json, markdown")
	rootCmd.AddCommand(searchCmd)
}

func searchAction(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("search query is required")
	}
	name, err := parsePlatform(searchPlatform, platform.BoTTube, platform.YouTube)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	formatter, err := digest.New(searchFormat, !noColor)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res discover.Result
	switch name {
	case platform.BoTTube:
		res.BoTTube, err = a.client.SearchBottube(ctx, query, searchLimit)
	case platform.YouTube:
		res.YouTube, err = a.client.DiscoverYouTube(ctx, platform.YouTubeQuery{Query: query, Limit: searchLimit})
	}
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, digest.Input{Result: res, Platforms: []platform.Name{name}})
}
