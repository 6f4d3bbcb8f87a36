package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Conversation metrics
	ConverseRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converse_requests_total",
		Help: "Total de conversas processadas",
	}, []string{"input", "output", "status"})

	ConverseLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "converse_latency_seconds",
		Help:    "Latência ponta a ponta de uma conversa",
		Buckets: prometheus.DefBuckets,
	}, []string{"input", "output"})

	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "converse_stage_latency_seconds",
		Help:    "Latência por etapa do pipeline",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converse_intents_total",
		Help: "Intenções reconhecidas pelo serviço de diálogo",
	}, []string{"intent"})

	SpecialIntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converse_special_intents_total",
		Help: "Intenções especiais resolvidas",
	}, []string{"intent", "outcome"})

	// Infrastructure metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converse_upstream_requests_total",
		Help: "Chamadas a serviços externos",
	}, []string{"api", "result"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converse_cache_lookups_total",
		Help: "Consultas ao cache de serviços de dados",
	}, []string{"kind", "result"})
)
