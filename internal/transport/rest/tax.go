package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/service/taxcal"
)

// TaxHandler serves tax deadline and progress endpoints. The calculations are
// pure; the handler only resolves the year and the current instant.
type TaxHandler struct {
	defaultTaxYear int
	now            func() time.Time
}

// NewTaxHandler creates a TaxHandler. defaultTaxYear 0 means "previous
// calendar year", resolved per request.
func NewTaxHandler(defaultTaxYear int) *TaxHandler {
	return &TaxHandler{defaultTaxYear: defaultTaxYear, now: time.Now}
}

type deadlinesResponse struct {
	TaxYear          int    `json:"taxYear"`
	PaperDeadline    string `json:"paperDeadline"`
	EFilingDeadline  string `json:"eFilingDeadline"`
	DaysUntilPaper   int    `json:"daysUntilPaper"`
	DaysUntilEFiling int    `json:"daysUntilEFiling"`
	IsOverdue        bool   `json:"isOverdue"`
}

type progressResponse struct {
	TaxYear         int     `json:"taxYear"`
	PercentElapsed  float64 `json:"percentElapsed"`
	DaysRemaining   int     `json:"daysRemaining"`
	MonthsRemaining int     `json:"monthsRemaining"`
	Quarter         int     `json:"quarter"`
}

// Deadlines handles GET /tax/deadlines?year=2025.
func (h *TaxHandler) Deadlines(w http.ResponseWriter, r *http.Request) {
	year, ok := h.resolveYear(w, r)
	if !ok {
		return
	}

	info := taxcal.Deadlines(year, h.now())
	writeJSON(w, http.StatusOK, deadlinesResponse{
		TaxYear:          info.TaxYear,
		PaperDeadline:    info.PaperDeadline.Format("2006-01-02"),
		EFilingDeadline:  info.EFilingDeadline.Format("2006-01-02"),
		DaysUntilPaper:   info.DaysUntilPaper,
		DaysUntilEFiling: info.DaysUntilEFiling,
		IsOverdue:        info.IsOverdue,
	})
}

// Progress handles GET /tax/progress?year=2026.
func (h *TaxHandler) Progress(w http.ResponseWriter, r *http.Request) {
	year, ok := h.resolveYear(w, r)
	if !ok {
		return
	}

	progress := taxcal.YearProgress(year, h.now())
	writeJSON(w, http.StatusOK, progressResponse{
		TaxYear:         progress.TaxYear,
		PercentElapsed:  progress.PercentElapsed,
		DaysRemaining:   progress.DaysRemaining,
		MonthsRemaining: progress.MonthsRemaining,
		Quarter:         progress.Quarter,
	})
}

func (h *TaxHandler) resolveYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1900 || year > 2200 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return 0, false
		}
		return year, true
	}
	if h.defaultTaxYear != 0 {
		return h.defaultTaxYear, true
	}
	return h.now().Year() - 1, true
}
