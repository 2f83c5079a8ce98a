package server

import (
	"context"
	"time"
)

// Probe reports whether a dependency is usable
type Probe func(ctx context.Context) error

// WatchReadiness runs probes every interval and reports SERVING only while all
// of them pass. It returns when ctx is done.
func (s *Server) WatchReadiness(ctx context.Context, every time.Duration, probes ...Probe) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, every)
		defer cancel()
		for _, probe := range probes {
			if err := probe(pctx); err != nil {
				s.logger.Warn("readiness probe failed", map[string]interface{}{"error": err.Error()})
				s.SetServing(false)
				return
			}
		}
		s.SetServing(true)
	}

	check()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
