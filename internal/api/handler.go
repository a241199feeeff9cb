package api

import (
	"laundry-concierge/internal/dispatch"
	"laundry-concierge/internal/nlu"
	"laundry-concierge/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	classifier nlu.Classifier
	dispatcher *dispatch.Dispatcher
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, classifier nlu.Classifier, dispatcher *dispatch.Dispatcher) *Handler {
	return &Handler{
		store:      s,
		classifier: classifier,
		dispatcher: dispatcher,
	}
}
