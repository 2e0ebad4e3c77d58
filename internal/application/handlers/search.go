package handlers

import (
	"context"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/domain/services"
)

// SearchHandler runs one-shot searches over a freshly loaded drop table.
type SearchHandler struct {
	loader *LoadHandler
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(loader *LoadHandler) *SearchHandler {
	return &SearchHandler{
		loader: loader,
	}
}

// SearchRequest describes one search.
type SearchRequest struct {
	Location  string
	Mode      services.FilterMode
	Query     string
	NameQuery string
	DropQuery string
	// Ranges offered to the session; Active selects the ones applied.
	Ranges []entities.LevelRange
	// Active are the ranges applied. nil applies none, which keeps every level.
	Active []entities.LevelRange
	// SuggestLimit caps suggestions when nothing matches; 0 disables them.
	SuggestLimit int
}

// SearchResult contains the visible monsters and the status line for them.
type SearchResult struct {
	Load        *LoadResult
	Monsters    []entities.Monster
	Summary     entities.StatusSummary
	Status      services.Status
	Suggestions []string
}

// Handle loads the drop table and filters it.
func (h *SearchHandler) Handle(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	loaded, err := h.loader.Handle(ctx, req.Location)
	if err != nil {
		return &SearchResult{Load: loaded, Monsters: []entities.Monster{}, Status: loaded.Status}, err
	}

	session := services.NewSession(loaded.Monsters, req.Mode, req.Ranges)
	return Apply(session, loaded, req), nil
}

// Apply applies the request's queries and ranges to an existing session.
func Apply(session *services.Session, loaded *LoadResult, req SearchRequest) *SearchResult {
	session.SetActiveRanges(req.Active)
	if session.Mode() == services.ModeSplit {
		session.SetNameQuery(req.NameQuery)
		session.SetDropQuery(req.DropQuery)
		if req.NameQuery == "" && req.Query != "" {
			session.SetQuery(req.Query)
		}
	} else {
		session.SetQuery(req.Query)
	}

	result := &SearchResult{
		Load:     loaded,
		Monsters: session.Visible(),
		Summary:  session.StatusSummary(),
	}
	result.Status = services.FilterStatus(result.Summary)
	if loaded != nil && loaded.Status.Kind == services.StatusEmpty {
		result.Status = loaded.Status
	}

	if len(result.Monsters) == 0 && req.SuggestLimit > 0 {
		result.Suggestions = session.Suggest(req.SuggestLimit)
	}
	return result
}
