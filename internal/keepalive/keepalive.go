// Package keepalive pings the service's own public URL so free-tier hosts
// don't idle the process out. Independent of request handling; correctness
// never depends on it.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = 10 * time.Minute

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      *zap.Logger
}

// New builds a pinger for url (the service's own /ping endpoint).
func New(url string, log *zap.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: defaultInterval,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// Start pings on a ticker until ctx is cancelled. It blocks; run it in its
// own goroutine.
func (p *Pinger) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.log.Warn("keepalive: build request", zap.Error(err))
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("keepalive: ping failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}
