package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// transactionRow is a display-ready ledger entry.
type transactionRow struct {
	Date        string
	Description string
	Amount      string
	Category    string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID := userIDFrom(r.Context())

	transactions, err := s.txnLister.ListTransactionsByUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "user_id", userID, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	summary, cached := s.summaryCache.Get(userID)
	if !cached {
		summary = core.Summarize(transactions, core.Today(time.Now()))
		s.summaryCache.Set(userID, summary)
	}

	var notices []Notice
	if n := popNotice(w, r); n != nil {
		notices = append(notices, *n)
	}
	if summary.NegativeNet {
		notices = append(notices, Notice{
			Level:   "warning",
			Message: "Warning: You have a negative net balance this period!",
		})
	}

	rows := make([]transactionRow, len(transactions))
	for i, t := range transactions {
		rows[i] = transactionRow{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Amount:      core.FormatAmount(t.Amount.Cents),
			Category:    t.Category,
		}
	}

	s.render(w, r, "dashboard.html", struct {
		Notices                   []Notice
		TotalIncome               string
		TotalExpense              string
		Net                       string
		PredictedNextMonthExpense string
		Transactions              []transactionRow
	}{
		Notices:                   notices,
		TotalIncome:               core.FormatAmount(summary.TotalIncome.Cents),
		TotalExpense:              core.FormatAmount(summary.TotalExpense.Cents),
		Net:                       core.FormatAmount(summary.Net.Cents),
		PredictedNextMonthExpense: core.FormatAmount(summary.PredictedNextMonthExpense.Cents),
		Transactions:              rows,
	})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/dashboard", "danger", "Invalid request format.")
		return
	}

	userID := userIDFrom(r.Context())

	// Malformed amounts are rejected, never coerced to zero.
	cents, err := core.ParseAmountToCents(r.Form.Get("amount"))
	if err != nil {
		redirectWithNotice(w, r, "/dashboard", "danger", "Invalid amount.")
		return
	}

	txn := core.Transaction{
		UserID:      userID,
		Date:        core.Today(time.Now()),
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.Form.Get("category")),
	}
	if err := txn.Validate(); err != nil {
		redirectWithNotice(w, r, "/dashboard", "danger", "Invalid transaction: "+err.Error())
		return
	}

	if _, err := s.txnWriter.CreateTransaction(r.Context(), txn); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction", "user_id", userID, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	// The cached aggregate is stale now
	s.summaryCache.Delete(userID)

	redirectWithNotice(w, r, "/dashboard", "success", "Transaction added successfully!")
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
