package app

import (
	"net/http"

	"github.com/goccy/go-json"
)

func (a *App) stationsHandler(w http.ResponseWriter, _ *http.Request) {
	if a.extractor == nil {
		http.Error(w, "extractor module is not running", http.StatusNotFound)
		return
	}

	doc, _ := a.extractor.Document()
	if doc == nil {
		http.Error(w, "no stations extracted yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := doc.Encode(w, false); err != nil {
		a.logger.Error("failed to write stations", "err", err)
	}
}

func (a *App) catalogHandler(w http.ResponseWriter, _ *http.Request) {
	if a.catalog == nil {
		http.Error(w, "catalog module is not running", http.StatusNotFound)
		return
	}

	s := a.catalog.Summary()
	if s == nil {
		http.Error(w, "catalog not checked yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		a.logger.Error("failed to write catalog summary", "err", err)
	}
}
