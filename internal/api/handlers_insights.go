package api

import (
	"net/http"

	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/metrics"
)

var cardCategories = []string{
	string(insight.CategoryLowConfidence),
	string(insight.CategoryMissingDocs),
	string(insight.CategorySLACritical),
	string(insight.CategoryEscalated),
	string(insight.CategoryApprovalReady),
}

// RecommendationsHandler returns the board-level recommendation cards
func (s *Server) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	cards := insight.Recommendations(s.store.Tickets())

	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[string(c.Category)] = c.Count
	}
	metrics.RecordRecommendations(counts, cardCategories)

	resp := RecommendationsResponse{
		Cards:    cards,
		AllClear: insight.AllClear(cards),
	}
	if resp.AllClear {
		resp.Message = insight.AllClearMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// SummaryHandler returns the summary strip, headline metrics and
// achievements
func (s *Server) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	tickets := s.store.Tickets()
	writeJSON(w, http.StatusOK, SummaryResponse{
		Summary:      insight.Summarize(tickets),
		Metrics:      s.store.Metrics(),
		Achievements: insight.Achievements(tickets),
	})
}
