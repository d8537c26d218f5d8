// Package observability holds Prometheus collectors and OpenTelemetry setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imageboard_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheHits counts cache-aside hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imageboard_cache_hits_total",
		Help: "Total number of cache-aside hits by key prefix",
	}, []string{"prefix"})

	// CacheMisses counts cache-aside misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imageboard_cache_misses_total",
		Help: "Total number of cache-aside misses by key prefix",
	}, []string{"prefix"})

	// ImageUploadsAccepted counts image payloads that passed validation.
	ImageUploadsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imageboard_image_uploads_accepted_total",
		Help: "Total number of uploaded images that passed validation",
	})

	// ImageUploadsRejected counts rejected image payloads by reason.
	ImageUploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imageboard_image_uploads_rejected_total",
		Help: "Total number of uploaded images rejected by validation, by reason",
	}, []string{"reason"})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imageboard_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter, by resource",
	}, []string{"resource"})
)
