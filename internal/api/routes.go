package api

import (
	"github.com/gorilla/mux"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/sor"
	"stealthcompany.com/opsboard/internal/store"
)

// Server serves the board over HTTP. It owns no state of its own; every
// handler reads and writes the injected store.
type Server struct {
	store *store.Store
	sor   *sor.Client
}

// NewServer wires a store and an optional SOR client (nil disables live
// SOR lookups).
func NewServer(st *store.Store, sorClient *sor.Client) *Server {
	return &Server{store: st, sor: sorClient}
}

// SetupRoutes configures and returns the HTTP router
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(metrics.MetricsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods("GET")

	// Tickets
	r.HandleFunc("/tickets", s.ListTicketsHandler).Methods("GET")
	r.HandleFunc("/tickets/{id}", s.GetTicketHandler).Methods("GET")
	r.HandleFunc("/tickets/{id}", s.PatchTicketHandler).Methods("PATCH")

	// Board state
	r.HandleFunc("/selection", s.GetSelectionHandler).Methods("GET")
	r.HandleFunc("/selection", s.PutSelectionHandler).Methods("PUT")
	r.HandleFunc("/selection", s.ClearSelectionHandler).Methods("DELETE")
	r.HandleFunc("/filters", s.GetFiltersHandler).Methods("GET")
	r.HandleFunc("/filters", s.PutFiltersHandler).Methods("PUT")

	// Insights
	r.HandleFunc("/recommendations", s.RecommendationsHandler).Methods("GET")
	r.HandleFunc("/summary", s.SummaryHandler).Methods("GET")

	// Validation stages
	r.HandleFunc("/tickets/{id}/stages", s.GetStagesHandler).Methods("GET")
	r.HandleFunc("/tickets/{id}/stages/current", s.SetCurrentStageHandler).Methods("PUT")
	r.HandleFunc("/tickets/{id}/stages/{stage}/status", s.SetStageStatusHandler).Methods("PUT")
	r.HandleFunc("/tickets/{id}/stages/{stage}/view", s.StageViewHandler).Methods("GET")

	// Review draft
	r.HandleFunc("/tickets/{id}/draft", s.GetDraftHandler).Methods("GET")
	r.HandleFunc("/tickets/{id}/draft", s.DiscardDraftHandler).Methods("DELETE")
	r.HandleFunc("/tickets/{id}/draft/documents/{doc}", s.ToggleDocumentHandler).Methods("PUT")
	r.HandleFunc("/tickets/{id}/draft/fields/{field}", s.EditFieldHandler).Methods("PUT")
	r.HandleFunc("/tickets/{id}/draft/stages/{stage}", s.MarkStageHandler).Methods("PUT")
	r.HandleFunc("/tickets/{id}/draft/save", s.SaveDraftHandler).Methods("POST")

	// Suggestions
	r.HandleFunc("/tickets/{id}/suggestions/{sid}/feedback", s.FeedbackHandler).Methods("POST")
	r.HandleFunc("/tickets/{id}/suggestions/{sid}/email", s.EmailDraftHandler).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	return r
}
