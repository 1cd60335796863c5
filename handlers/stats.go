package handlers

import (
	"context"

	"github.com/VictoriaMetrics/metrics"

	"github.com/oaiiae/addressbook/router"
)

// Stats prints the command metrics in Prometheus text format.
type Stats struct {
	Metrics *metrics.Set
}

func (h *Stats) Register(r *router.Router) {
	r.Handle(router.Route{Command: "stats", Doc: "print command metrics", Handler: h.stats})
}

func (h *Stats) stats(_ context.Context, req *router.Request) error {
	h.Metrics.WritePrometheus(req.Out)
	return nil
}
