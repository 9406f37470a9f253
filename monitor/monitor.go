package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/nft"
	"github.com/xyths/nft-dashboard/notify"
	"github.com/xyths/nft-dashboard/opensea"
)

const (
	defaultInterval = time.Minute
	defaultMaxDelay = 15 * time.Minute
)

type Config struct {
	Interval string
	MaxDelay string   `json:"maxDelay"` // oldest window start after a long pause
	Projects []string // tracked contract addresses
	Retry    string   // max elapsed time of retries per project
}

type Source interface {
	EventsByContract(ctx context.Context, address string, after, before time.Time) ([]nft.Event, error)
}

type Store interface {
	LoadLastTime(ctx context.Context) (*time.Time, error)
	SaveLastTime(ctx context.Context, now time.Time) error
	SaveEvents(ctx context.Context, events []nft.Event) error
}

// Monitor polls the marketplace for events of the tracked projects, stores
// them and hands them to the notifiers.
type Monitor struct {
	interval  time.Duration
	maxDelay  time.Duration
	retry     time.Duration
	projects  []string
	source    Source
	store     Store
	notifiers []notify.Notifier
	now       func() time.Time

	Sugar *zap.SugaredLogger
}

func New(cfg Config, source Source, store Store, notifiers []notify.Notifier, sugar *zap.SugaredLogger) (*Monitor, error) {
	m := &Monitor{
		interval:  defaultInterval,
		maxDelay:  defaultMaxDelay,
		retry:     time.Minute,
		source:    source,
		store:     store,
		notifiers: notifiers,
		now:       time.Now,
		Sugar:     sugar,
	}
	var err error
	if cfg.Interval != "" {
		if m.interval, err = time.ParseDuration(cfg.Interval); err != nil {
			return nil, fmt.Errorf("interval %s format error: %w", cfg.Interval, err)
		}
	}
	if cfg.MaxDelay != "" {
		if m.maxDelay, err = time.ParseDuration(cfg.MaxDelay); err != nil {
			return nil, fmt.Errorf("maxDelay %s format error: %w", cfg.MaxDelay, err)
		}
	}
	if cfg.Retry != "" {
		if m.retry, err = time.ParseDuration(cfg.Retry); err != nil {
			return nil, fmt.Errorf("retry %s format error: %w", cfg.Retry, err)
		}
	}
	seen := make(map[common.Address]bool)
	for _, p := range cfg.Projects {
		if !common.IsHexAddress(p) {
			return nil, fmt.Errorf("project %q is not a contract address", p)
		}
		addr := common.HexToAddress(p)
		if seen[addr] {
			continue
		}
		seen[addr] = true
		m.projects = append(m.projects, addr.Hex())
	}
	return m, nil
}

// Run does one round immediately and then one per interval until ctx ends.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.doWork(ctx); err != nil {
		m.Sugar.Errorf("doWork error: %s", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.interval):
			if err := m.doWork(ctx); err != nil {
				m.Sugar.Errorf("doWork error: %s", err)
			}
		}
	}
}

func (m *Monitor) doWork(ctx context.Context) error {
	m.Sugar.Info("doWork start")
	defer m.Sugar.Info("doWork finish")
	last, err := m.store.LoadLastTime(ctx)
	if err != nil {
		return err
	}
	if last != nil {
		m.Sugar.Infof("load last time: %s", last.String())
	}

	now := m.now()
	if last == nil || last.Before(now.Add(-m.maxDelay)) {
		oldest := now.Add(-m.maxDelay)
		last = &oldest
	}

	var events []nft.Event
	for _, p := range m.projects {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result, err := m.fetch(ctx, p, *last, now)
		if err != nil {
			m.Sugar.Errorf("request events of project %s error: %s", p, err)
			continue
		}
		m.Sugar.Infof("project %s events size = %d", p, len(result))
		events = append(events, result...)
	}
	// newest first across projects, notifiers send from the end
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})

	if err = m.store.SaveEvents(ctx, events); err != nil {
		m.Sugar.Errorf("save events error: %s", err)
	}
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, events); err != nil {
			m.Sugar.Errorf("%s notify error: %s", n.Name(), err)
		}
	}
	if err = m.store.SaveLastTime(ctx, now); err != nil {
		return fmt.Errorf("save last time: %w", err)
	}
	m.Sugar.Infof("save last time: %s", now.String())
	return nil
}

func (m *Monitor) fetch(ctx context.Context, project string, from, to time.Time) ([]nft.Event, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = m.retry

	var events []nft.Event
	op := func() error {
		var err error
		events, err = m.source.EventsByContract(ctx, project, from, to)
		if errors.Is(err, context.Canceled) || opensea.Permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	onRetry := func(err error, d time.Duration) {
		m.Sugar.Warnf("request events of %s error: %s, retry in %s", project, err, d)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), onRetry); err != nil {
		return nil, err
	}
	return events, nil
}
