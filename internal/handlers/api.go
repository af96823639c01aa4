package handlers

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/pipeline"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
)

// Tables are replaced on every refresh, so clients must revalidate.
const cacheControl = "no-cache"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// runError maps a failed pipeline run to the error envelope.
func runError(err error) *errors.AppError {
	var acqErr *source.AcquisitionError
	var parseErr *pipeline.ParseError

	switch {
	case stderrors.Is(err, services.ErrNoReport):
		return errors.ServiceUnavailableWrap(err, "sales report is not available yet")
	case stderrors.As(err, &acqErr):
		return errors.Acquisition(err, "sales data could not be obtained")
	case stderrors.As(err, &parseErr):
		return errors.Parse(err, "sales data contains a malformed record")
	default:
		return errors.InternalWrap(err, "sales report could not be computed")
	}
}

func (h *APIHandlers) currentReport(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	report, err := h.dashboard.Report()
	if err != nil {
		errors.WriteError(w, h.logger, runError(err), observability.GetRequestID(r.Context()))
		return nil, false
	}
	return report, true
}

func (h *APIHandlers) writeTable(w http.ResponseWriter, r *http.Request, pick func(*models.Report) any) {
	report, ok := h.currentReport(w, r)
	if !ok {
		return
	}

	headers := map[string]string{
		"Cache-Control": cacheControl,
	}

	errors.WriteSuccessWithHeaders(w, pick(report), headers)
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.Summary() })
}

func (h *APIHandlers) HandleRevenueByState(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.RevenueByState })
}

func (h *APIHandlers) HandleRevenueByMonth(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.RevenueByMonth })
}

func (h *APIHandlers) HandleRevenueByCategory(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.RevenueByCategory })
}

func (h *APIHandlers) HandleSalesByState(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.SalesCountByState })
}

func (h *APIHandlers) HandleSalesByMonth(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.SalesCountByMonth })
}

func (h *APIHandlers) HandleSalesByMonthName(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.SalesCountByMonthName })
}

func (h *APIHandlers) HandleSalesByCategory(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.SalesCountByCategory })
}

func (h *APIHandlers) HandleSellers(w http.ResponseWriter, r *http.Request) {
	h.writeTable(w, r, func(rep *models.Report) any { return rep.SellerSummary })
}

// HandleTopSellers serves /api/sellers/top?n=5&by=revenue. n outside
// [2,10] is rejected.
func (h *APIHandlers) HandleTopSellers(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	n := h.dashboard.DefaultTopN()
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "n must be an integer"), requestID)
			return
		}
		n = parsed
	}

	rank, err := pipeline.ParseRank(r.URL.Query().Get("by"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "by must be revenue or sales"), requestID)
		return
	}

	if err := pipeline.ValidateTopN(n); err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, fmt.Sprintf("n must be between %d and %d", pipeline.MinTopN, pipeline.MaxTopN)), requestID)
		return
	}

	sellers, err := h.dashboard.TopSellers(n, rank)
	if err != nil {
		errors.WriteError(w, h.logger, runError(err), requestID)
		return
	}

	headers := map[string]string{
		"Cache-Control": cacheControl,
	}

	errors.WriteSuccessWithHeaders(w, sellers, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.dashboard.Stats()

	errors.WriteSuccess(w, stats)
}

// HandleRefresh runs the pipeline against the source now.
func (h *APIHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Refresh(r.Context()); err != nil {
		errors.WriteError(w, h.logger, runError(err), observability.GetRequestID(r.Context()))
		return
	}

	report, ok := h.currentReport(w, r)
	if !ok {
		return
	}
	errors.WriteSuccess(w, report.Summary())
}
