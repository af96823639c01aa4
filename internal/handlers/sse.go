package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/pipeline"
	"sales-dashboard/internal/services"
)

const maxTableRows = 10

var stateTableTemplate = template.Must(template.New("stateTable").Parse(`
<div id="state-table">
<table class="modern-table">
<thead><tr><th>Estado</th><th>Receita</th></tr></thead>
<tbody>
{{range $i, $item := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Location}}</td>
<td><strong>{{$.Currency}} {{.Revenue.StringFixed 2}}</strong></td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

var metricsTemplate = template.Must(template.New("metrics").Parse(`
<div id="{{.ID}}" class="metrics">
<div class="metric"><span class="metric-label">Receita total</span><span class="metric-value">{{.Revenue}}</span></div>
<div class="metric"><span class="metric-label">Quantidade de compras</span><span class="metric-value">{{.Sales}}</span></div>
</div>`))

var statusTemplate = template.Must(template.New("status").Parse(
	`<div id="dashboard-status" class="status{{if .Error}} status-error{{end}}">{{if .Error}}Erro ao carregar os dados: {{.Error}}{{end}}</div>`))

type SSEHandlers struct {
	dashboard *services.Dashboard
	currency  string
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, cfg config.DashboardConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		currency:  cfg.Currency,
		logger:    logger,
	}
}

type templateData struct {
	Data     []models.StateRevenue
	MaxRows  int
	Currency string
}

type metricsData struct {
	ID      string
	Revenue string
	Sales   string
}

// sellerSignals is what the page sends back with every datastar request.
type sellerSignals struct {
	TopN int `json:"topN"`
}

func (h *SSEHandlers) renderStateTable(data []models.StateRevenue) (string, error) {
	var buf strings.Builder

	if len(data) > maxTableRows {
		data = data[:maxTableRows]
	}

	tmplData := templateData{Data: data, MaxRows: maxTableRows, Currency: h.currency}
	err := stateTableTemplate.Execute(&buf, tmplData)
	return buf.String(), err
}

func (h *SSEHandlers) renderMetrics(id string, report *models.Report) (string, error) {
	var buf strings.Builder
	err := metricsTemplate.Execute(&buf, metricsData{
		ID:      id,
		Revenue: format.FormatValue(report.TotalRevenue.InexactFloat64(), h.currency),
		Sales:   format.FormatValue(float64(report.TotalSales), ""),
	})
	return buf.String(), err
}

func renderStatus(err error) string {
	var buf strings.Builder
	data := struct{ Error string }{}
	if err != nil {
		data.Error = err.Error()
	}
	if execErr := statusTemplate.Execute(&buf, data); execErr != nil {
		return `<div id="dashboard-status" class="status status-error">Erro ao carregar os dados</div>`
	}
	return buf.String()
}

// report patches an error banner and returns nil when no snapshot exists,
// so no table is ever pushed without a complete run behind it.
func (h *SSEHandlers) report(sse *datastar.ServerSentEventGenerator) *models.Report {
	report, err := h.dashboard.Report()
	if err != nil {
		h.logger.Warn("sales report unavailable", "error", err)
		sse.PatchElements(renderStatus(err))
		return nil
	}
	sse.PatchElements(renderStatus(nil))
	return report
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) bool {
	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return false
	}
	sse.PatchSignals(jsonData)
	return true
}

func revenueSignals(report *models.Report) map[string]any {
	topStates := report.RevenueByState
	if len(topStates) > maxTableRows {
		topStates = topStates[:maxTableRows]
	}
	return map[string]any{
		"revenueByState":    report.RevenueByState,
		"topStatesRevenue":  topStates,
		"revenueByMonth":    report.RevenueByMonth,
		"revenueByCategory": report.RevenueByCategory,
	}
}

func salesSignals(report *models.Report) map[string]any {
	return map[string]any{
		"salesByState":     report.SalesCountByState,
		"salesByMonth":     report.SalesCountByMonth,
		"salesByMonthName": report.SalesCountByMonthName,
		"salesByCategory":  report.SalesCountByCategory,
	}
}

// sellerSignalsFor ranks sellers for the requested top n. An out-of-range
// request falls back to the configured default and the corrected value is
// sent back to the page.
func (h *SSEHandlers) sellerSignalsFor(r *http.Request, report *models.Report) map[string]any {
	n := h.dashboard.DefaultTopN()

	var in sellerSignals
	if err := datastar.ReadSignals(r, &in); err != nil {
		h.logger.Debug("read seller signals", "error", err)
	} else if in.TopN != 0 {
		if err := pipeline.ValidateTopN(in.TopN); err != nil {
			h.logger.Warn("top n rejected, using default", "requested", in.TopN, "default", n)
		} else {
			n = in.TopN
		}
	}

	byRevenue, _ := pipeline.TopSellers(report.SellerSummary, n, pipeline.RankByRevenue)
	bySales, _ := pipeline.TopSellers(report.SellerSummary, n, pipeline.RankBySales)

	return map[string]any{
		"topN":             n,
		"sellersByRevenue": byRevenue,
		"sellersBySales":   bySales,
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report := h.report(sse)
	if report == nil {
		flush(w)
		return
	}

	metrics, err := h.renderMetrics("revenue-metrics", report)
	if err != nil {
		h.logger.Error("render revenue metrics", "error", err)
		return
	}
	table, err := h.renderStateTable(report.RevenueByState)
	if err != nil {
		h.logger.Error("render state table", "error", err)
		return
	}

	sse.PatchElements(metrics)
	sse.PatchElements(table)
	h.patchSignals(sse, revenueSignals(report))

	flush(w)
}

func (h *SSEHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report := h.report(sse)
	if report == nil {
		flush(w)
		return
	}

	metrics, err := h.renderMetrics("sales-metrics", report)
	if err != nil {
		h.logger.Error("render sales metrics", "error", err)
		return
	}

	sse.PatchElements(metrics)
	h.patchSignals(sse, salesSignals(report))

	flush(w)
}

func (h *SSEHandlers) HandleSellers(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report := h.report(sse)
	if report == nil {
		flush(w)
		return
	}

	metrics, err := h.renderMetrics("seller-metrics", report)
	if err != nil {
		h.logger.Error("render seller metrics", "error", err)
		return
	}

	sse.PatchElements(metrics)
	h.patchSignals(sse, h.sellerSignalsFor(r, report))

	flush(w)
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report := h.report(sse)
	if report == nil {
		flush(w)
		return
	}

	table, err := h.renderStateTable(report.RevenueByState)
	if err != nil {
		h.logger.Error("render state table", "error", err)
		return
	}
	sse.PatchElements(table)

	for _, id := range []string{"revenue-metrics", "sales-metrics", "seller-metrics"} {
		metrics, err := h.renderMetrics(id, report)
		if err != nil {
			h.logger.Error("render metrics", "id", id, "error", err)
			return
		}
		sse.PatchElements(metrics)
	}

	// Send all signals in one call
	all := revenueSignals(report)
	for k, v := range salesSignals(report) {
		all[k] = v
	}
	for k, v := range h.sellerSignalsFor(r, report) {
		all[k] = v
	}
	h.patchSignals(sse, all)

	flush(w)
}
