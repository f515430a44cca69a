package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type goalRequest struct {
	GoalAmount decimal.Decimal `json:"goal_amount"`
	GoalDate   string          `json:"goal_date"`
}

// GetSavingsGoal returns the caller's savings goal
func (h *Handler) GetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	goal, err := h.svc.GetSavingsGoal(uid)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// SetSavingsGoal creates or replaces the caller's savings goal
func (h *Handler) SetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	date, err := time.Parse(dateLayout, req.GoalDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "goal_date must be YYYY-MM-DD"})
		return
	}
	goal, err := h.svc.SetSavingsGoal(uid, req.GoalAmount, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

type addSavingsRequest struct {
	SavingsAmount decimal.Decimal `json:"savings_amount"`
}

// AddSavings adds an amount to the caller's savings goal
func (h *Handler) AddSavings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req addSavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	goal, reached, err := h.svc.AddSavings(uid, req.SavingsAmount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	detail := "Savings added successfully."
	if reached {
		detail = "Congratulations! Goal reached and exceeded!"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"detail": detail, "goal": goal})
}

type subscriptionRequest struct {
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	PaymentMethod string          `json:"payment_method"`
	DueDate       string          `json:"due_date"`
}

// CreateSubscription creates a subscription for the caller
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "due_date must be YYYY-MM-DD"})
		return
	}

	sub := &models.Subscription{
		UserID:        uid,
		Name:          req.Name,
		Amount:        req.Amount,
		Frequency:     req.Frequency,
		PaymentMethod: req.PaymentMethod,
		DueDate:       dueDate,
	}
	if err := h.svc.CreateSubscription(sub); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// ListSubscriptions returns the caller's subscriptions, optionally filtered
// by month and year query parameters
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	subs, err := h.svc.ListSubscriptions(uid, month, year)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

// MarkSubscriptionPaid toggles a subscription's paid status
func (h *Handler) MarkSubscriptionPaid(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid subscription id"})
		return
	}
	paid, err := h.svc.ToggleSubscriptionPaid(id, uid)
	if err != nil {
		h.respondError(w, err)
		return
	}
	status := "unpaid"
	if paid {
		status = "paid"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "Subscription marked as " + status})
}
