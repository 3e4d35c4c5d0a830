package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LocateRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ichnaea_locate_requests_total",
		Help: "Total number of /v1/geolocate requests",
	})
	LocateSourceHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ichnaea_locate_source_hits_total",
		Help: "Locate results by data source (cell, ocid_cell, cell_area, ocid_cell_area, miss)",
	}, []string{"source"})
	SubmitReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ichnaea_submit_reports_total",
		Help: "Total number of submitted measurement reports",
	})
	SubmitDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ichnaea_submit_dropped_total",
		Help: "Total number of observations dropped for missing identity fields",
	})
	BlacklistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ichnaea_blacklisted_cells_total",
		Help: "Total number of cells blacklisted for inconsistent positions",
	})
	QueuedReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ichnaea_queued_reports_total",
		Help: "Total number of reports pushed to the update_incoming queue",
	})
)

func init() {
	prometheus.MustRegister(
		LocateRequestsTotal,
		LocateSourceHits,
		SubmitReportsTotal,
		SubmitDroppedTotal,
		BlacklistedTotal,
		QueuedReportsTotal,
	)
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
