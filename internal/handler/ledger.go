package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/Tau-rai/fintrekapi/internal/repository"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles category creation
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	category, err := h.svc.CreateCategory(uid, req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// ListCategories returns the caller's categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	categories, err := h.svc.ListCategories(uid)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// DeleteCategory deletes a category owned by the caller
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category id"})
		return
	}
	if err := h.svc.DeleteCategory(id, uid); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type transactionRequest struct {
	CategoryID  *int64          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// CreateTransaction records a new transaction for the caller
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	tx := &models.Transaction{
		UserID:      uid,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		tx.Date = date
	}
	if err := h.svc.CreateTransaction(r.Context(), tx); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the caller's transactions with optional
// start_date, end_date and category filters
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	filter := repository.TransactionFilter{}
	query := r.URL.Query()
	if raw := query.Get("start_date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		filter.StartDate = &date
	}
	if raw := query.Get("end_date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		filter.EndDate = &date
	}
	if raw := query.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be an id"})
			return
		}
		filter.CategoryID = &id
	}

	transactions, err := h.svc.ListTransactions(r.Context(), uid, filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// DeleteTransaction deletes a transaction owned by the caller
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction id"})
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), id, uid); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// TransactionSummary returns overall income, spending and top categories
func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	summary, err := h.svc.TransactionSummary(r.Context(), uid)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type budgetRequest struct {
	Month        string          `json:"month"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
}

// CreateBudget creates a monthly budget for the caller
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	month, err := time.Parse(dateLayout, req.Month)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM-DD"})
		return
	}
	budget, err := h.svc.CreateBudget(r.Context(), uid, month, req.BudgetAmount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

// monthParam parses the optional month query parameter, defaulting to the
// current month
func monthParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}

// GetBudget returns the caller's budget for a month
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	month, err := monthParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM-DD"})
		return
	}
	budget, err := h.svc.GetBudget(uid, month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// BudgetStatus reports the caller's budget against actual expenditure
func (h *Handler) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	month, err := monthParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM-DD"})
		return
	}
	status, err := h.svc.BudgetStatus(r.Context(), uid, month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}
