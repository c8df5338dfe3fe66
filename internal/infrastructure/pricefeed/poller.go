package pricefeed

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/api/metrics"
)

const (
	defaultWorkers  = 4
	defaultInterval = 30 * time.Second
)

// Refresher re-fetches one network's price into the cache. The poller
// discards the returned price; it only cares that the entry is fresh.
type Refresher interface {
	Refresh(ctx context.Context, network string) (decimal.Decimal, error)
}

// Poller keeps the price cache warm with a fixed set of workers.
// Networks shard onto workers by consistent hashing, so each network is
// only ever refreshed by one goroutine.
type Poller struct {
	shards   [][]string
	refresh  Refresher
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller shards networks across numWorkers refresh workers.
// Non-positive numWorkers or interval select the defaults.
func NewPoller(networks []string, numWorkers int, interval time.Duration, refresh Refresher, log zerolog.Logger) *Poller {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if interval <= 0 {
		interval = defaultInterval
	}

	p := &Poller{
		shards:   make([][]string, numWorkers),
		refresh:  refresh,
		interval: interval,
		log:      log,
	}
	for _, network := range networks {
		i := p.shardIndex(network)
		p.shards[i] = append(p.shards[i], network)
	}
	return p
}

// Start launches all refresh workers. Workers stop when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	for i, networks := range p.shards {
		if len(networks) == 0 {
			continue
		}
		go p.runWorker(ctx, i, networks)
	}
}

// shardIndex maps a network deterministically to a worker index.
func (p *Poller) shardIndex(network string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(network))
	return int(h.Sum32()) % len(p.shards)
}

func (p *Poller) runWorker(ctx context.Context, id int, networks []string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refreshAll(ctx, id, networks)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshAll(ctx, id, networks)
		}
	}
}

func (p *Poller) refreshAll(ctx context.Context, id int, networks []string) {
	for _, network := range networks {
		if _, err := p.refresh.Refresh(ctx, network); err != nil {
			metrics.PriceRefreshTotal.WithLabelValues("error").Inc()
			p.log.Error().Err(err).
				Str("network", network).
				Int("worker_id", id).
				Msg("price refresh failed")
			continue
		}
		metrics.PriceRefreshTotal.WithLabelValues("ok").Inc()
	}
}
