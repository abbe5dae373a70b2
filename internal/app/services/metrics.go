package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qpshare_search_total",
		Help: "Number of catalog searches served.",
	})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qpshare_search_duration_seconds",
		Help:    "Latency of catalog searches.",
		Buckets: prometheus.DefBuckets,
	})

	moderationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qpshare_moderation_actions_total",
		Help: "Moderation transitions applied, by action.",
	}, []string{"action"})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qpshare_uploads_total",
		Help: "Upload attempts, by outcome.",
	}, []string{"outcome"})

	orphanedObjects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qpshare_orphaned_objects_total",
		Help: "Stored objects left without a catalog row after a failed compensation.",
	})

	orphansSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qpshare_orphans_swept_total",
		Help: "Orphaned objects removed by the reconciliation sweep.",
	})
)
