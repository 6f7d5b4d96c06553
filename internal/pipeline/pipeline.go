package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kevinmichaelchen/repo-radar/internal/config"
	"github.com/kevinmichaelchen/repo-radar/internal/github"
	"github.com/kevinmichaelchen/repo-radar/internal/logger"
	"github.com/kevinmichaelchen/repo-radar/internal/models"
	"github.com/kevinmichaelchen/repo-radar/internal/normalize"
	"github.com/kevinmichaelchen/repo-radar/internal/report"
	"github.com/kevinmichaelchen/repo-radar/internal/snapshot"
	"github.com/kevinmichaelchen/repo-radar/internal/throttle"
)

// Searcher runs one repository search.
type Searcher interface {
	SearchRepositories(ctx context.Context, p github.SearchParams) ([]github.RawRepo, error)
}

// Waiter paces requests.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Stats counts what happened during a run.
type Stats struct {
	Pairs  int // (category, sort) pairs attempted
	Failed int // pairs degraded to an empty list
}

// Pipeline fetches every (category, sort) pair in order and assembles the
// results into a snapshot.
type Pipeline struct {
	Searcher   Searcher
	Throttle   Waiter
	Categories []models.Category
	Sorts      []models.SortSpec
	MinStars   int
	PerPage    int
	Log        *logger.Logger
	Now        func() time.Time
}

// Run processes all pairs sequentially. A failing pair is logged and left
// empty; it never aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*models.Snapshot, Stats) {
	log := p.Log
	if log == nil {
		log = logger.Named("pipeline")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	sorts := p.Sorts
	if sorts == nil {
		sorts = models.DefaultSorts
	}

	snap := models.NewSnapshot(p.Categories, sorts)
	var stats Stats

	for _, cat := range p.Categories {
		query := github.BuildQuery(cat.Topics, p.MinStars)
		for _, sp := range sorts {
			stats.Pairs++

			repos, err := p.fetchPair(ctx, cat.Name, query, sp)
			if err != nil {
				stats.Failed++
				log.Error().Str("category", cat.Name).Str("sort", sp.Field).Err(err).Msg("fetch failed; recording empty list")
				snap.Set(cat.Name, sp.Field, nil)
				continue
			}

			snap.Set(cat.Name, sp.Field, repos)
			log.Info().Str("category", cat.Name).Str("sort", sp.Field).Int("count", len(repos)).Msg("fetched")
		}
	}

	snap.Finalize(now())
	return snap, stats
}

func (p *Pipeline) fetchPair(ctx context.Context, category, query string, sp models.SortSpec) ([]models.Repo, error) {
	if p.Throttle != nil {
		if err := p.Throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	raws, err := p.Searcher.SearchRepositories(ctx, github.SearchParams{
		Query:   query,
		Sort:    sp.Field,
		Order:   sp.Order,
		PerPage: p.PerPage,
	})
	if err != nil {
		return nil, err
	}

	repos, err := normalize.Repos(raws, category)
	if err != nil {
		return nil, fmt.Errorf("normalizing results: %w", err)
	}
	return repos, nil
}

// Run executes one full pass: fetch everything, write the snapshot to
// cfg.OutputPath, and print a summary to out. Only configuration and
// snapshot write errors are returned.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.Named("pipeline")

	cats, err := cfg.Categories()
	if err != nil {
		return err
	}

	thr := throttle.New(cfg.RequestInterval, cfg.AdaptiveRateLimit)
	gh := github.NewClient(cfg.GitHubToken,
		github.WithBaseURL(cfg.GitHubBaseURL),
		github.WithTimeout(cfg.HTTPTimeout),
		github.WithRateObserver(thr),
	)

	if cfg.GitHubToken == "" {
		log.Warn().Msg("no DASHBOARD_TOKEN or GITHUB_TOKEN set; using unauthenticated requests")
	}
	log.Info().
		Int("categories", len(cats)).
		Int("sorts", len(models.DefaultSorts)).
		Dur("interval", thr.Interval()).
		Msg("starting fetch")

	p := &Pipeline{
		Searcher:   gh,
		Throttle:   thr,
		Categories: cats,
		Sorts:      models.DefaultSorts,
		MinStars:   cfg.MinStars,
		PerPage:    cfg.PerPage,
		Log:        log,
	}
	snap, stats := p.Run(ctx)

	if err := snapshot.Write(cfg.OutputPath, snap); err != nil {
		return err
	}
	log.Info().
		Str("path", cfg.OutputPath).
		Int("total", snap.TotalRepositories).
		Int("failed_pairs", stats.Failed).
		Msg("snapshot written")

	if err := report.Summary(out, snap); err != nil {
		log.Warn().Err(err).Msg("printing summary")
	}
	return nil
}
