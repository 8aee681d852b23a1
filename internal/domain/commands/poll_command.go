package commands

import (
	"context"
	"sort"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// UpdaterLister returns the updaters a poll cycle checks.
type UpdaterLister interface {
	All() []repositories.UpdaterRepository
}

// PollOptions configures a PollCommand.
type PollOptions struct {
	// IntervalTicks is the number of ticks between two poll cycles.
	IntervalTicks int
	// Concurrency bounds the checks running at once within a cycle.
	Concurrency int
	// DevMode disables polling entirely.
	DevMode bool
	// OnNotice, when set, is called once per surfaced update.
	OnNotice func(entities.UpdateNotice)
}

// PollCommand counts host ticks and re-checks every registered updater once
// per interval, raising one notice per newly surfaced version.
type PollCommand struct {
	updaters UpdaterLister
	opts     PollOptions

	mu      sync.Mutex
	ticks   int
	notices []entities.UpdateNotice
}

// NewPollCommand creates a poller. The tick counter starts one short of the
// interval so the first tick runs a cycle.
func NewPollCommand(updaters UpdaterLister, opts PollOptions) *PollCommand {
	if opts.IntervalTicks <= 0 {
		opts.IntervalTicks = entities.DefaultIntervalTicks
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &PollCommand{
		updaters: updaters,
		opts:     opts,
		ticks:    opts.IntervalTicks - 1,
	}
}

// OnTick advances the tick counter and runs a poll cycle when the interval is
// reached. It reports whether a cycle ran.
func (it *PollCommand) OnTick(ctx context.Context) bool {
	if it.opts.DevMode {
		return false
	}

	it.mu.Lock()
	it.ticks++
	due := it.ticks >= it.opts.IntervalTicks
	if due {
		it.ticks = 0
	}
	it.mu.Unlock()

	if !due {
		return false
	}
	it.Poll(ctx)
	return true
}

// Poll checks every updater now and returns the notices raised by this cycle.
// The notices are also queued for Drain.
func (it *PollCommand) Poll(ctx context.Context) []entities.UpdateNotice {
	var (
		mu     sync.Mutex
		raised []entities.UpdateNotice
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(it.opts.Concurrency)
	for _, updater := range it.updaters.All() {
		group.Go(func() error {
			info := updater.CheckForUpdates(groupCtx)
			if !updater.Surface(info) {
				return nil
			}
			notice := entities.UpdateNotice{
				ComponentID:   updater.ID(),
				DisplayName:   updater.Component().Name(),
				LatestVersion: info.LatestVersion,
				ReleaseURL:    info.ReleaseURL,
			}
			mu.Lock()
			raised = append(raised, notice)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	sort.Slice(raised, func(i, j int) bool { return raised[i].ComponentID < raised[j].ComponentID })

	it.mu.Lock()
	it.notices = append(it.notices, raised...)
	it.mu.Unlock()

	for _, notice := range raised {
		logger.Infof("Update available for %s: %s", notice.DisplayName, notice.LatestVersion)
		if it.opts.OnNotice != nil {
			it.opts.OnNotice(notice)
		}
	}

	return raised
}

// Drain returns the queued notices and clears the queue.
func (it *PollCommand) Drain() []entities.UpdateNotice {
	it.mu.Lock()
	defer it.mu.Unlock()

	notices := it.notices
	it.notices = nil
	return notices
}

// Run drives OnTick from a ticker firing every tickRate until ctx is done.
func (it *PollCommand) Run(ctx context.Context, tickRate time.Duration) error {
	if it.opts.DevMode {
		logger.Info("Development mode: update polling is disabled")
		<-ctx.Done()
		return nil
	}
	if tickRate <= 0 {
		tickRate = entities.DefaultTickRate
	}

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			it.OnTick(ctx)
		}
	}
}
