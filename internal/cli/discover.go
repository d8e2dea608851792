package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/digest"
	"github.com/ppiankov/grazer/internal/discover"
	"github.com/ppiankov/grazer/internal/logging"
	"github.com/ppiankov/grazer/internal/platform"
	"github.com/ppiankov/grazer/internal/store"
)

var (
	discoverPlatform string
	discoverCategory string
	discoverSubmolt  string
	discoverBoard    string
	discoverColony   string
	discoverQuery    string
	discoverStatus   string
	discoverLimit    int
	discoverFormat   string
	discoverSave     bool
	discoverTrending bool
	noColor          bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover trending content on one platform or all of them",
	RunE:  discoverAction,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverPlatform, "platform", "p", "all", "platform name, pinchedin-jobs, swarmhub, all, or feeds")
	discoverCmd.Flags().StringVarP(&discoverCategory, "category", "c", "", "BoTTube or Directory category")
	discoverCmd.Flags().StringVarP(&discoverSubmolt, "submolt", "s", "", "Moltbook submolt (default tech)")
	discoverCmd.Flags().StringVarP(&discoverBoard, "board", "b", "", "4claw board (default b) or AgentChan board (default ai)")
	discoverCmd.Flags().StringVar(&discoverColony, "colony", "", "The Colony sub-colony")
	discoverCmd.Flags().StringVarP(&discoverQuery, "query", "q", "", "YouTube or Directory search query")
	discoverCmd.Flags().StringVar(&discoverStatus, "status", "", "ClawTasks bounty status (default open)")
	discoverCmd.Flags().IntVarP(&discoverLimit, "limit", "l", 0, "result limit per platform")
	discoverCmd.Flags().StringVar(&discoverFormat, "format", "terminal", "output format: terminal, json, markdown")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "record results in the local history")
	discoverCmd.Flags().BoolVar(&discoverTrending, "trending", false, "MoltX trending feed instead of latest")
	discoverCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	rootCmd.AddCommand(discoverCmd)
}

func discoverAction(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	formatter, err := digest.New(discoverFormat, !noColor)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	input, err := gatherDiscovery(ctx, a)
	if err != nil {
		return err
	}

	if discoverSave || a.cfg.History.Enabled {
		if err := saveHistory(ctx, a, input); err != nil {
			return err
		}
	}

	return formatter.Format(os.Stdout, input)
}

// pinchedInJobs lists PinchedIn job postings instead of the feed.
const pinchedInJobs = "pinchedin-jobs"

func gatherDiscovery(ctx context.Context, a *app) (digest.Input, error) {
	c := a.client
	limit := discoverLimit

	switch discoverPlatform {
	case "", "all":
		res := discover.All(ctx, c, discover.Options{Limit: limit, Board: discoverBoard, Log: a.log})
		input := digest.Input{Result: res}
		if len(a.cfg.Feeds) > 0 {
			feeds, err := c.DiscoverFeeds(ctx, a.cfg.Feeds, limit)
			if err != nil {
				a.log.Warn("feeds failed", logging.Error(err))
			}
			input.Feeds = feeds
		}
		input.Trending = digest.FindTrending(input, a.cfg.Digest.WatchKeywords, a.cfg.Digest.MinPlatforms)
		return input, nil
	case pinchedInJobs:
		jobs, err := c.DiscoverPinchedInJobs(ctx, limit)
		if err != nil {
			return digest.Input{}, err
		}
		return digest.Input{Extra: toItems(jobs), Platforms: []platform.Name{platform.PinchedIn}}, nil
	case string(platform.SwarmHub):
		hub, err := c.DiscoverSwarmHub(ctx, limit)
		if err != nil {
			return digest.Input{}, err
		}
		return digest.Input{Extra: hub.Items(), Platforms: []platform.Name{platform.SwarmHub}}, nil
	case string(platform.Feeds):
		feeds, err := c.DiscoverFeeds(ctx, a.cfg.Feeds, limit)
		if err != nil {
			return digest.Input{}, err
		}
		return digest.Input{Feeds: feeds, Platforms: []platform.Name{platform.Feeds}}, nil
	}

	name, err := platform.ParseName(discoverPlatform)
	if err != nil {
		return digest.Input{}, err
	}
	res, err := discoverOne(ctx, c, name, limit)
	if err != nil {
		return digest.Input{}, err
	}
	return digest.Input{Result: res, Platforms: []platform.Name{name}}, nil
}

// discoverOne runs a single platform's discovery with the command's flags.
func discoverOne(ctx context.Context, c *platform.Client, name platform.Name, limit int) (discover.Result, error) {
	var (
		res discover.Result
		err error
	)
	switch name {
	case platform.BoTTube:
		res.BoTTube, err = c.DiscoverBottube(ctx, platform.BottubeQuery{Category: discoverCategory, Limit: limit})
	case platform.Moltbook:
		res.Moltbook, err = c.DiscoverMoltbook(ctx, platform.MoltbookQuery{Submolt: discoverSubmolt, Limit: limit})
	case platform.ClawCities:
		res.ClawCities, err = c.DiscoverClawCities(ctx, limit)
	case platform.Clawsta:
		res.Clawsta, err = c.DiscoverClawsta(ctx, limit)
	case platform.Fourclaw:
		res.Fourclaw, err = c.DiscoverFourclaw(ctx, platform.FourclawQuery{Board: discoverBoard, Limit: limit, IncludeContent: true})
	case platform.YouTube:
		res.YouTube, err = c.DiscoverYouTube(ctx, platform.YouTubeQuery{Query: discoverQuery, Limit: limit})
	case platform.Colony:
		res.Colony, err = c.DiscoverColony(ctx, platform.ColonyQuery{Colony: discoverColony, Limit: limit})
	case platform.MoltX:
		if discoverTrending {
			res.MoltX, err = c.DiscoverMoltXTrending(ctx, limit)
		} else {
			res.MoltX, err = c.DiscoverMoltX(ctx, limit)
		}
	case platform.MoltExchange:
		res.MoltExchange, err = c.DiscoverMoltExchange(ctx, limit)
	case platform.PinchedIn:
		res.PinchedIn, err = c.DiscoverPinchedIn(ctx, limit)
	case platform.ClawTasks:
		res.ClawTasks, err = c.DiscoverClawTasks(ctx, platform.ClawTasksQuery{Status: discoverStatus, Limit: limit})
	case platform.ClawNews:
		res.ClawNews, err = c.DiscoverClawNews(ctx, limit)
	case platform.AgentChan:
		res.AgentChan, err = c.DiscoverAgentChan(ctx, platform.AgentChanQuery{Board: discoverBoard, Limit: limit})
	case platform.Directory:
		res.Directory, err = c.DiscoverDirectory(ctx, platform.DirectoryQuery{Category: discoverCategory, Query: discoverQuery, Limit: limit})
	default:
		return res, fmt.Errorf("discover: unsupported platform %s", name)
	}
	return res, err
}

func saveHistory(ctx context.Context, a *app, input digest.Input) error {
	db, err := store.Open(a.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = db.Close() }()

	now := time.Now()
	var items []store.ItemInput
	for _, name := range append(platform.Known(), platform.SwarmHub, platform.Feeds) {
		for _, rec := range digest.ItemsFor(input, name) {
			e := digest.EntryFor(rec)
			if e.ID == "" {
				continue
			}
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode %s item: %w", name, err)
			}
			items = append(items, store.ItemInput{
				Platform:   string(name),
				ExternalID: e.ID,
				Title:      e.Title,
				Author:     e.Author,
				URL:        e.URL,
				Payload:    payload,
				SeenAt:     now,
			})
		}
	}

	inserted, err := db.RecordItems(ctx, items)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if a.cfg.History.RetainDays > 0 {
		pruned, err := db.Prune(ctx, a.cfg.History.RetainDays)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		if pruned > 0 {
			a.log.Info("pruned history", logging.Int("items", int(pruned)))
		}
	}
	a.log.Info("saved history",
		logging.Int("new", inserted),
		logging.Int("seen", len(items)-inserted))
	return nil
}

func toItems[T platform.Item](records []T) []platform.Item {
	out := make([]platform.Item, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
