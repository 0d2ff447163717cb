package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "Products created, labelled by whether a soft-deleted record was reactivated",
	}, []string{"mode"})

	ProductsDeactivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deactivated_total",
		Help: "Total number of products soft-deleted",
	})

	CategoriesDeactivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_categories_deactivated_total",
		Help: "Total number of categories soft-deleted",
	})

	SlugConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_slug_conflicts_total",
		Help: "Slug reservations rejected because an active record holds the slug",
	}, []string{"entity"})

	ReviewMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_review_mutations_total",
		Help: "Review additions and removals that triggered a rating recompute",
	}, []string{"mutation"})

	RatingRecomputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_rating_recompute_latency_seconds",
		Help:    "Latency of the locked read-aggregate-write rating sequence",
		Buckets: prometheus.DefBuckets,
	})

	ListingCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_listing_cache_requests_total",
		Help: "Visible listing cache lookups by result",
	}, []string{"result"})

	SideEffectFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_side_effect_failures_total",
		Help: "Post-commit side effects (events, cache invalidation) that failed",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
