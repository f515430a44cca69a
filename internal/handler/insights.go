package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Tau-rai/fintrekapi/internal/repository"
)

// ListInsights returns one page of the caller's insights, newest first
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	result, err := h.svc.ListInsights(r.Context(), uid, page)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GenerateInsight runs the on-demand insight pipeline for the caller and
// returns the resulting insight, or 400 if none could be produced
func (h *Handler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	insight, err := h.svc.GeneratePersonalInsight(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "No personalized insight could be generated"})
			return
		}
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// ExchangeRate returns conversion rates from the requested currency
func (h *Handler) ExchangeRate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from_currency")
	if from == "" {
		from = "USD"
	}
	rates, err := h.svc.ExchangeRates(r.Context(), from)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rates)
}
