// Package templates holds the server-rendered dashboard page. Charts are
// drawn client-side from datastar signals pushed by the /sse endpoints.
package templates

import (
	"fmt"

	"github.com/a-h/templ"
)

const (
	revenueTab = "receita"
	salesTab   = "vendas"
	sellersTab = "vendedores"
)

type DashboardProps struct {
	Title       string
	DefaultTopN int
	MinTopN     int
	MaxTopN     int
}

type chart struct {
	ID     string
	Effect string
}

type tab struct {
	ID        string
	Label     string
	MetricsID string
	Left      []chart
	Right     []chart
}

var tabs = []tab{
	{
		ID:        revenueTab,
		Label:     "Receita",
		MetricsID: "revenue-metrics",
		Left: []chart{
			{ID: "map-revenue-state", Effect: "charts.geo('map-revenue-state', $revenueByState, 'revenue', 'Receita por estado')"},
			{ID: "bar-revenue-state", Effect: "charts.bar('bar-revenue-state', $topStatesRevenue, 'location', 'revenue', 'Receita por estado', 'Estado', 'Receita (R$)')"},
		},
		Right: []chart{
			{ID: "line-revenue-month", Effect: "charts.monthly('line-revenue-month', $revenueByMonth, 'revenue', 'Receita mensal', 'Receita (R$)')"},
			{ID: "bar-revenue-category", Effect: "charts.bar('bar-revenue-category', $revenueByCategory, 'category', 'revenue', 'Receita por categoria', 'Categoria', 'Receita (R$)')"},
		},
	},
	{
		ID:        salesTab,
		Label:     "Quantidade de vendas",
		MetricsID: "sales-metrics",
		Left: []chart{
			{ID: "map-sales-state", Effect: "charts.geo('map-sales-state', $salesByState, 'sales', 'Quantidade de vendas por estado')"},
			{ID: "bar-sales-month-name", Effect: "charts.bar('bar-sales-month-name', $salesByMonthName, 'month', 'sales', 'Quantidade de vendas por mês', 'Mês', 'Quantidade de vendas')"},
		},
		Right: []chart{
			{ID: "line-sales-month", Effect: "charts.monthly('line-sales-month', $salesByMonth, 'sales', 'Quantidade de vendas por mês', 'Quantidade de vendas')"},
			{ID: "bar-sales-category", Effect: "charts.bar('bar-sales-category', $salesByCategory, 'category', 'sales', 'Quantidade de vendas por categoria', 'Categoria', 'Quantidade de vendas')"},
		},
	},
	{
		ID:        sellersTab,
		Label:     "Vendedores",
		MetricsID: "seller-metrics",
		Left: []chart{
			{ID: "bar-seller-revenue", Effect: "charts.bar('bar-seller-revenue', $sellersByRevenue, 'seller', 'revenue', 'Top ' + $topN + ' vendedores por receita', 'Vendedor', 'Receita (R$)')"},
		},
		Right: []chart{
			{ID: "bar-seller-sales", Effect: "charts.bar('bar-seller-sales', $sellersBySales, 'seller', 'sales', 'Top ' + $topN + ' vendedores por quantidade de vendas', 'Vendedor', 'Quantidade de vendas')"},
		},
	},
}

const chartsJS = `
window.charts = {
  layout: function (title, xTitle, yTitle) {
    return {title: {text: title}, xaxis: {title: {text: xTitle || ''}}, yaxis: {title: {text: yTitle || ''}}, margin: {t: 48}};
  },
  bar: function (id, rows, x, y, title, xTitle, yTitle) {
    if (!rows || !window.Plotly) return;
    var ys = rows.map(function (r) { return r[y]; });
    Plotly.react(id, [{type: 'bar', x: rows.map(function (r) { return r[x]; }), y: ys,
      marker: {color: ys, colorscale: 'Teal'}}], charts.layout(title, xTitle, yTitle), {responsive: true});
  },
  monthly: function (id, rows, y, title, yTitle) {
    if (!rows || !window.Plotly) return;
    var years = {};
    rows.forEach(function (r) { (years[r.year] = years[r.year] || []).push(r); });
    var traces = Object.keys(years).map(function (year) {
      return {type: 'scatter', mode: 'lines+markers', name: year,
        x: years[year].map(function (r) { return r.month; }),
        y: years[year].map(function (r) { return r[y]; })};
    });
    Plotly.react(id, traces, charts.layout(title, 'Mês', yTitle), {responsive: true});
  },
  geo: function (id, rows, size, title) {
    if (!rows || !window.Plotly) return;
    var located = rows.filter(function (r) { return r.coordinates; });
    var values = located.map(function (r) { return r[size]; });
    var max = Math.max.apply(null, values.concat([1]));
    Plotly.react(id, [{type: 'scattergeo',
      lat: located.map(function (r) { return r.coordinates.lat; }),
      lon: located.map(function (r) { return r.coordinates.lon; }),
      text: located.map(function (r) { return r.location; }),
      hoverinfo: 'text+name', name: size,
      marker: {size: values.map(function (v) { return 6 + 40 * v / max; })}}],
      {title: {text: title}, geo: {scope: 'south america', projection: {type: 'natural earth'}}, margin: {t: 48}},
      {responsive: true});
  }
};`

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f8f9;color:#17323a}
header{padding:1rem 2rem;background:#0f5257;color:#fff}
nav{display:flex;gap:.5rem;padding:.5rem 2rem;background:#e3eef0}
nav button{border:0;padding:.5rem 1rem;background:transparent;cursor:pointer}
nav button.active{border-bottom:3px solid #0f5257;font-weight:600}
main{padding:1rem 2rem}
.columns{display:grid;grid-template-columns:1fr 1fr;gap:1rem}
.metrics{display:flex;gap:1rem;margin-bottom:1rem}
.metric{display:flex;flex-direction:column;background:#fff;padding:.75rem 1rem;border-radius:6px}
.metric-value{font-size:1.5rem;font-weight:600}
.chart{min-height:380px;background:#fff;border-radius:6px;margin-bottom:1rem}
.status-error{background:#fde2e1;color:#8a1c17;padding:.75rem 2rem}
.modern-table{border-collapse:collapse;width:100%;background:#fff}
.modern-table td,.modern-table th{padding:.4rem .6rem;border-bottom:1px solid #e3eef0;text-align:left}`

// pageSignals seeds the datastar store: the open tab and the seller count.
func pageSignals(props DashboardProps) string {
	return fmt.Sprintf("{tab: '%s', topN: %d}", revenueTab, props.DefaultTopN)
}

func (t tab) selectExpr() string {
	return fmt.Sprintf("$tab = '%s'", t.ID)
}

func (t tab) activeExpr() string {
	return fmt.Sprintf("$tab == '%s'", t.ID)
}

// assets inlines the chart helpers and page styles.
func assets() templ.Component {
	return templ.Raw("<script>" + chartsJS + "</script><style>" + styles + "</style>")
}
