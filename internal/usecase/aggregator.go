// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
	"github.com/ykohei-dev/gh-contribs/internal/gateway"
)

// defaultMaxWindows caps the number of one-year windows walked backward
// in a single run. The natural stops are an exhausted window or the
// caller's lower bound; the cap guards pathological inputs.
const defaultMaxWindows = 200

// loopState names the states of the pagination loop. Every terminal
// condition gets its own state so termination is explicit rather than
// buried in nested conditionals.
type loopState int

const (
	stateContinue loopState = iota
	// stateUnavailable: the API reported the user or its contribution
	// collection as absent. Logged, not retried; accumulated results
	// are still returned.
	stateUnavailable
	// stateExhausted: a window returned zero items in all four
	// categories, so earlier windows would be wasted queries.
	stateExhausted
	// stateRangeComplete: the next window would fall entirely before
	// the caller's lower bound.
	stateRangeComplete
)

// Options bound and tune one aggregation run. A zero From means no lower
// bound (paginate until a window comes back empty); a zero To defaults
// to the current time. Concurrency above one enables parallel window
// fetching and requires a From bound, since without one the window list
// cannot be planned up front.
type Options struct {
	From        time.Time
	To          time.Time
	Concurrency int
}

// Aggregator is the use case for aggregating GitHub contributions.
// It drives the time-windowed pagination loop and folds each page's four
// contribution categories into one per-repository record.
type Aggregator struct {
	fetcher    gateway.Fetcher
	logger     *zap.Logger
	maxWindows int
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		fetcher:    fetcher,
		logger:     logger,
		maxWindows: defaultMaxWindows,
	}
}

// FetchContributions walks backward through time in one-year windows,
// queries each window once, and merges the four contribution categories
// into a per-repository aggregate. The result keeps only active,
// non-private repositories, ordered by stargazers descending with
// repository name as the tiebreak.
//
// An unavailable-user response ends pagination and returns whatever was
// accumulated; transport errors propagate to the caller unretried.
func (a *Aggregator) FetchContributions(ctx context.Context, login string, opts Options) ([]*domain.Repository, error) {
	from, to, bounded := normalizeRange(opts.From, opts.To)
	a.logger.Info("starting contribution aggregation",
		zap.String("login", login),
		zap.Time("to", to),
		zap.Bool("bounded", bounded),
	)

	if bounded && opts.Concurrency > 1 {
		return a.fetchParallel(ctx, login, from, to, opts.Concurrency)
	}

	acc := newAccumulator(login)
	state := stateContinue
	for i := 0; state == stateContinue; i++ {
		if i >= a.maxWindows {
			a.logger.Warn("window cap reached, stopping pagination", zap.Int("windows", a.maxWindows))
			break
		}

		start := windowStart(to, from, bounded)
		page, err := a.fetcher.FetchContributions(ctx, login, start, to)
		if err != nil {
			if !gateway.IsUserUnavailable(err) {
				return nil, err
			}
			a.logger.Error("contributions unavailable, stopping pagination",
				zap.String("login", login),
				zap.Error(err),
			)
			state = stateUnavailable
			continue
		}

		acc.addPage(page)
		if page.TotalItems() == 0 {
			state = stateExhausted
			continue
		}

		to = start.Add(-time.Second)
		if bounded && to.Before(from) {
			state = stateRangeComplete
		}
	}

	results := acc.results()
	a.logger.Info("aggregation complete", zap.Int("repositories", len(results)))
	return results, nil
}

// errPaginationStopped cancels the fan-out group after an
// unavailable-user response. It never escapes FetchContributions.
var errPaginationStopped = errors.New("pagination stopped")

// fetchParallel fans out over the precomputed window list. Pages land in
// a slice indexed by window so the merge below runs on one goroutine in
// the same newest-first order the sequential loop uses; details are then
// re-sorted chronologically since windows no longer arrive in order.
// An unavailable-user response is terminal here too: the group is
// canceled and the windows fetched so far are kept.
func (a *Aggregator) fetchParallel(ctx context.Context, login string, from, to time.Time, concurrency int) ([]*domain.Repository, error) {
	windows := planWindows(from, to, a.maxWindows)
	a.logger.Info("fetching windows in parallel",
		zap.Int("windows", len(windows)),
		zap.Int("concurrency", concurrency),
	)

	pages := make([]*gateway.ContributionsPage, len(windows))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, w := range windows {
		eg.Go(func() error {
			page, err := a.fetcher.FetchContributions(egCtx, login, w.from, w.to)
			if err != nil {
				if gateway.IsUserUnavailable(err) {
					a.logger.Error("contributions unavailable, stopping pagination",
						zap.String("login", login),
						zap.Time("from", w.from),
						zap.Time("to", w.to),
						zap.Error(err),
					)
					return errPaginationStopped
				}
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := eg.Wait(); err != nil && !errors.Is(err, errPaginationStopped) {
		return nil, err
	}

	acc := newAccumulator(login)
	for _, page := range pages {
		if page != nil {
			acc.addPage(page)
		}
	}
	acc.sortDetails()
	results := acc.results()
	a.logger.Info("aggregation complete", zap.Int("repositories", len(results)))
	return results, nil
}

// normalizeRange fills in the default upper bound and repairs a
// reversed range by swapping the ends.
func normalizeRange(from, to time.Time) (time.Time, time.Time, bool) {
	bounded := !from.IsZero()
	if to.IsZero() {
		to = time.Now()
	}
	if bounded && to.Before(from) {
		from, to = to, from
	}
	return from, to, bounded
}

// windowStart computes the lower bound of the window ending at to: one
// year minus one second earlier, clamped to the overall from bound.
func windowStart(to, from time.Time, bounded bool) time.Time {
	start := to.AddDate(-1, 0, 0).Add(time.Second)
	if bounded && start.Before(from) {
		start = from
	}
	return start
}

type window struct {
	from, to time.Time
}

// planWindows materializes the newest-first window sequence the
// sequential loop would walk over [from, to].
func planWindows(from, to time.Time, max int) []window {
	var windows []window
	for !to.Before(from) && len(windows) < max {
		start := windowStart(to, from, true)
		windows = append(windows, window{from: start, to: to})
		to = start.Add(-time.Second)
	}
	return windows
}

// accumulator owns the aggregate map for the duration of one
// aggregation call. Summary fields are written on first insert only;
// later pages merge contribution counts and details additively.
type accumulator struct {
	login string
	repos map[string]*domain.Repository
}

func newAccumulator(login string) *accumulator {
	return &accumulator{
		login: login,
		repos: make(map[string]*domain.Repository),
	}
}

// addPage folds one window's four categories into the aggregate map.
// Commits contribute a count only; the other three categories also
// contribute timeline entries with the category's fixed entry type.
func (acc *accumulator) addPage(page *gateway.ContributionsPage) {
	for _, c := range page.Commits {
		acc.merge(&c.Repository, &domain.Contributions{
			Commits: c.Contributions.TotalCount,
		})
	}
	for _, c := range page.PullRequests {
		record := &domain.Contributions{PullRequests: c.Contributions.TotalCount}
		for _, node := range c.Contributions.Nodes {
			record.Details = append(record.Details, domain.TimelineEntry{
				Type:       domain.EntryPullRequest,
				URL:        node.PullRequest.URL,
				Title:      node.PullRequest.Title,
				OccurredAt: node.OccurredAt.Time,
				Number:     node.PullRequest.Number,
			})
		}
		acc.merge(&c.Repository, record)
	}
	for _, c := range page.Reviews {
		record := &domain.Contributions{Reviews: c.Contributions.TotalCount}
		for _, node := range c.Contributions.Nodes {
			record.Details = append(record.Details, domain.TimelineEntry{
				Type:       domain.EntryReview,
				URL:        node.PullRequestReview.URL,
				Title:      node.PullRequest.Title,
				OccurredAt: node.OccurredAt.Time,
				Number:     node.PullRequest.Number,
			})
		}
		acc.merge(&c.Repository, record)
	}
	for _, c := range page.Issues {
		record := &domain.Contributions{Issues: c.Contributions.TotalCount}
		for _, node := range c.Contributions.Nodes {
			record.Details = append(record.Details, domain.TimelineEntry{
				Type:       domain.EntryIssue,
				URL:        node.Issue.URL,
				Title:      node.Issue.Title,
				OccurredAt: node.OccurredAt.Time,
				Number:     node.Issue.Number,
			})
		}
		acc.merge(&c.Repository, record)
	}
}

// merge inserts the repository summary on first encounter and folds the
// contribution record in either way. The typed Contributions merge keeps
// summary fields out of reach of the additive merge.
func (acc *accumulator) merge(raw *gateway.RawRepository, record *domain.Contributions) {
	repo, ok := acc.repos[raw.NameWithOwner]
	if !ok {
		repo = summarizeRepository(acc.login, raw)
		acc.repos[raw.NameWithOwner] = repo
	}
	repo.Contribs.Merge(record)
}

// sortDetails orders every repository's activity feed chronologically.
// Only the parallel path needs this; the sequential loop appends in
// window order already.
func (acc *accumulator) sortDetails() {
	for _, repo := range acc.repos {
		details := repo.Contribs.Details
		sort.SliceStable(details, func(i, j int) bool {
			return details[i].OccurredAt.Before(details[j].OccurredAt)
		})
	}
}

// results selects active, non-private repositories and orders them by
// popularity. Repository name breaks stargazer ties so reruns over
// identical data produce identical output.
func (acc *accumulator) results() []*domain.Repository {
	out := make([]*domain.Repository, 0, len(acc.repos))
	for _, repo := range acc.repos {
		if !repo.IsActive || repo.IsPrivate {
			continue
		}
		out = append(out, repo)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stargazers != out[j].Stargazers {
			return out[i].Stargazers > out[j].Stargazers
		}
		return out[i].Name < out[j].Name
	})
	return out
}
