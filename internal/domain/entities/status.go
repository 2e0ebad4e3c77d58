package entities

// StatusSummary reports how many monsters are loaded and how many pass the active filters.
type StatusSummary struct {
	TotalLoaded      int `json:"total_loaded"`
	CurrentlyVisible int `json:"currently_visible"`
}
