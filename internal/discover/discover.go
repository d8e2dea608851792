// Package discover runs every platform's discovery call at once and collects
// the results, isolating each platform's failure.
package discover

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/grazer/internal/logging"
	"github.com/ppiankov/grazer/internal/platform"
)

// Discoverer is the set of discovery calls All fans out to.
// *platform.Client implements it.
type Discoverer interface {
	DiscoverBottube(ctx context.Context, q platform.BottubeQuery) ([]platform.BottubeVideo, error)
	DiscoverMoltbook(ctx context.Context, q platform.MoltbookQuery) ([]platform.MoltbookPost, error)
	DiscoverClawCities(ctx context.Context, limit int) ([]platform.ClawCitiesSite, error)
	DiscoverClawsta(ctx context.Context, limit int) ([]platform.ClawstaPost, error)
	DiscoverFourclaw(ctx context.Context, q platform.FourclawQuery) ([]platform.FourclawThread, error)
	DiscoverYouTube(ctx context.Context, q platform.YouTubeQuery) ([]platform.YouTubeVideo, error)
	DiscoverColony(ctx context.Context, q platform.ColonyQuery) ([]platform.ColonyPost, error)
	DiscoverMoltX(ctx context.Context, limit int) ([]platform.MoltXPost, error)
	DiscoverMoltExchange(ctx context.Context, limit int) ([]platform.MoltExchangeQuestion, error)
}

// ExtraDiscoverer adds the supplementary platforms to the fan-out. All uses
// it when the Discoverer also implements it.
type ExtraDiscoverer interface {
	DiscoverPinchedIn(ctx context.Context, limit int) ([]platform.PinchedInPost, error)
	DiscoverClawTasks(ctx context.Context, q platform.ClawTasksQuery) ([]platform.ClawTask, error)
	DiscoverClawNews(ctx context.Context, limit int) ([]platform.ClawNewsStory, error)
	DiscoverAgentChan(ctx context.Context, q platform.AgentChanQuery) ([]platform.AgentChanThread, error)
	DiscoverDirectory(ctx context.Context, q platform.DirectoryQuery) ([]platform.DirectoryService, error)
}

// Options tune the fan-out. Zero values mean Limit 10 and Board "b".
type Options struct {
	Limit int
	Board string
	Log   logging.Logger
}

// Result holds one list per platform. Every list is non-nil.
type Result struct {
	BoTTube      []platform.BottubeVideo         `json:"bottube"`
	Moltbook     []platform.MoltbookPost         `json:"moltbook"`
	ClawCities   []platform.ClawCitiesSite       `json:"clawcities"`
	Clawsta      []platform.ClawstaPost          `json:"clawsta"`
	Fourclaw     []platform.FourclawThread       `json:"fourclaw"`
	YouTube      []platform.YouTubeVideo         `json:"youtube"`
	Colony       []platform.ColonyPost           `json:"thecolony"`
	MoltX        []platform.MoltXPost            `json:"moltx"`
	MoltExchange []platform.MoltExchangeQuestion `json:"moltexchange"`

	// Supplementary platforms are omitted when empty.
	PinchedIn []platform.PinchedInPost    `json:"pinchedin,omitempty"`
	ClawTasks []platform.ClawTask         `json:"clawtasks,omitempty"`
	ClawNews  []platform.ClawNewsStory    `json:"clawnews,omitempty"`
	AgentChan []platform.AgentChanThread  `json:"agentchan,omitempty"`
	Directory []platform.DirectoryService `json:"directory,omitempty"`

	// Errors records why a platform came back empty.
	Errors map[platform.Name]string `json:"errors,omitempty"`
}

// All calls every discovery operation concurrently and waits for all of them.
// A failing call contributes an empty list and an entry in Result.Errors; All
// itself never fails. A supplementary platform without a credential is
// skipped silently.
func All(ctx context.Context, d Discoverer, opts Options) Result {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	board := opts.Board
	if board == "" {
		board = "b"
	}
	log := opts.Log
	if log == nil {
		log = logging.NewNop()
	}

	var (
		res Result
		mu  sync.Mutex
		g   errgroup.Group
	)
	failures := make(map[platform.Name]string)
	// Each task reports its error here and always returns nil to the group.
	record := func(name platform.Name, err error) {
		if err == nil {
			return
		}
		log.Warn("discovery failed", logging.String("platform", string(name)), logging.Error(err))
		mu.Lock()
		failures[name] = err.Error()
		mu.Unlock()
	}

	g.Go(func() error {
		v, err := d.DiscoverBottube(ctx, platform.BottubeQuery{Limit: limit})
		res.BoTTube = orEmpty(v, err)
		record(platform.BoTTube, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverMoltbook(ctx, platform.MoltbookQuery{Limit: limit})
		res.Moltbook = orEmpty(v, err)
		record(platform.Moltbook, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverClawCities(ctx, limit)
		res.ClawCities = orEmpty(v, err)
		record(platform.ClawCities, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverClawsta(ctx, limit)
		res.Clawsta = orEmpty(v, err)
		record(platform.Clawsta, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverFourclaw(ctx, platform.FourclawQuery{Board: board, Limit: limit})
		res.Fourclaw = orEmpty(v, err)
		record(platform.Fourclaw, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverYouTube(ctx, platform.YouTubeQuery{Limit: limit})
		res.YouTube = orEmpty(v, err)
		record(platform.YouTube, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverColony(ctx, platform.ColonyQuery{Limit: limit})
		res.Colony = orEmpty(v, err)
		record(platform.Colony, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverMoltX(ctx, limit)
		res.MoltX = orEmpty(v, err)
		record(platform.MoltX, err)
		return nil
	})
	g.Go(func() error {
		v, err := d.DiscoverMoltExchange(ctx, limit)
		res.MoltExchange = orEmpty(v, err)
		record(platform.MoltExchange, err)
		return nil
	})
	if x, ok := d.(ExtraDiscoverer); ok {
		// skip drops credential errors, which only mean the platform is not set up.
		skip := func(name platform.Name, err error) {
			if errors.Is(err, platform.ErrCredentialRequired) {
				log.Debug("supplementary platform not configured", logging.String("platform", string(name)))
				return
			}
			record(name, err)
		}
		g.Go(func() error {
			v, err := x.DiscoverPinchedIn(ctx, limit)
			res.PinchedIn = orEmpty(v, err)
			skip(platform.PinchedIn, err)
			return nil
		})
		g.Go(func() error {
			v, err := x.DiscoverClawTasks(ctx, platform.ClawTasksQuery{Limit: limit})
			res.ClawTasks = orEmpty(v, err)
			skip(platform.ClawTasks, err)
			return nil
		})
		g.Go(func() error {
			v, err := x.DiscoverClawNews(ctx, limit)
			res.ClawNews = orEmpty(v, err)
			skip(platform.ClawNews, err)
			return nil
		})
		g.Go(func() error {
			v, err := x.DiscoverAgentChan(ctx, platform.AgentChanQuery{Limit: limit})
			res.AgentChan = orEmpty(v, err)
			skip(platform.AgentChan, err)
			return nil
		})
		g.Go(func() error {
			v, err := x.DiscoverDirectory(ctx, platform.DirectoryQuery{Limit: 2 * limit})
			res.Directory = orEmpty(v, err)
			skip(platform.Directory, err)
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		res.Errors = failures
	}
	return res
}

func orEmpty[T any](items []T, err error) []T {
	if err != nil || items == nil {
		return []T{}
	}
	return items
}

// Items returns the records for one platform as platform.Items.
func (r Result) Items(name platform.Name) []platform.Item {
	switch name {
	case platform.BoTTube:
		return toItems(r.BoTTube)
	case platform.Moltbook:
		return toItems(r.Moltbook)
	case platform.ClawCities:
		return toItems(r.ClawCities)
	case platform.Clawsta:
		return toItems(r.Clawsta)
	case platform.Fourclaw:
		return toItems(r.Fourclaw)
	case platform.YouTube:
		return toItems(r.YouTube)
	case platform.Colony:
		return toItems(r.Colony)
	case platform.MoltX:
		return toItems(r.MoltX)
	case platform.MoltExchange:
		return toItems(r.MoltExchange)
	case platform.PinchedIn:
		return toItems(r.PinchedIn)
	case platform.ClawTasks:
		return toItems(r.ClawTasks)
	case platform.ClawNews:
		return toItems(r.ClawNews)
	case platform.AgentChan:
		return toItems(r.AgentChan)
	case platform.Directory:
		return toItems(r.Directory)
	}
	return []platform.Item{}
}

func toItems[T platform.Item](items []T) []platform.Item {
	out := make([]platform.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Counts returns the number of records per platform.
func (r Result) Counts() map[platform.Name]int {
	known := platform.Known()
	counts := make(map[platform.Name]int, len(known))
	for _, name := range known {
		counts[name] = len(r.Items(name))
	}
	return counts
}

// Total is the number of records across all platforms.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Counts() {
		n += c
	}
	return n
}
