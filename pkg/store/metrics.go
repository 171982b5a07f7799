package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hereafter_messages_appended_total",
		Help: "Messages appended to the repository.",
	})
	rewritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hereafter_store_rewrites_total",
		Help: "Full-file rewrites of the message store.",
	})
	rewriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hereafter_store_rewrite_failures_total",
		Help: "Rewrites that failed; in-memory state stays authoritative.",
	})
	messagesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hereafter_messages",
		Help: "Messages currently held in the repository.",
	})
)
