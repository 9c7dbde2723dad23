package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Board metrics are created on first use with business metrics enabled.
var (
	stageTransitionsTotal *prometheus.CounterVec
	draftSavesTotal       *prometheus.CounterVec
	recommendationCards   *prometheus.GaugeVec
	suggestionFeedback    *prometheus.CounterVec
	sorFetchTotal         *prometheus.CounterVec
	sorFetchDuration      *prometheus.HistogramVec

	boardOnce sync.Once
)

func initializeBoardMetrics() {
	boardOnce.Do(func() {
		stageTransitionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsboard_stage_transitions_total",
				Help: "Validation stages opened, by stage id",
			},
			[]string{"stage"},
		)

		draftSavesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsboard_draft_saves_total",
				Help: "Review drafts committed or discarded",
			},
			[]string{"result"}, // "saved", "mirrored", "mirror_failed", "discarded"
		)

		recommendationCards = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "opsboard_recommendation_tickets",
				Help: "Tickets per recommendation category at the last board scan",
			},
			[]string{"category"},
		)

		suggestionFeedback = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsboard_suggestion_feedback_total",
				Help: "Thumbs up/down votes on suggestions",
			},
			[]string{"vote"},
		)

		sorFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsboard_sor_fetch_total",
				Help: "System-of-record lookups by HTTP status",
			},
			[]string{"status_code"},
		)

		sorFetchDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsboard_sor_fetch_duration_seconds",
				Help:    "Time spent fetching system-of-record data",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		GetInstance().registry.MustRegister(
			stageTransitionsTotal,
			draftSavesTotal,
			recommendationCards,
			suggestionFeedback,
			sorFetchTotal,
			sorFetchDuration,
		)
	})
}

// RecordStageTransition counts an operator opening a stage.
func RecordStageTransition(stage string) {
	if !BusinessEnabled() {
		return
	}
	initializeBoardMetrics()
	stageTransitionsTotal.WithLabelValues(stage).Inc()
}

// RecordDraft counts a draft outcome.
func RecordDraft(result string) {
	if !BusinessEnabled() {
		return
	}
	initializeBoardMetrics()
	draftSavesTotal.WithLabelValues(result).Inc()
}

// RecordRecommendations sets the per-category ticket counts. Categories
// missing from counts are reset to zero.
func RecordRecommendations(counts map[string]int, categories []string) {
	if !BusinessEnabled() {
		return
	}
	initializeBoardMetrics()
	for _, c := range categories {
		recommendationCards.WithLabelValues(c).Set(float64(counts[c]))
	}
}

// RecordSuggestionFeedback counts a vote.
func RecordSuggestionFeedback(vote string) {
	if !BusinessEnabled() {
		return
	}
	initializeBoardMetrics()
	suggestionFeedback.WithLabelValues(vote).Inc()
}

// RecordSORFetch records one system-of-record call. statusCode is 0 when
// the request never got a response.
func RecordSORFetch(startTime time.Time, statusCode int, result string) {
	if !BusinessEnabled() {
		return
	}
	initializeBoardMetrics()
	sorFetchTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	sorFetchDuration.WithLabelValues(result).Observe(time.Since(startTime).Seconds())
}
