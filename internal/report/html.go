package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"tunadex/internal/domain"
)

// ChartData feeds the Plotly charts embedded in HTML reports.
type ChartData struct {
	DailyTrend struct {
		Dates   []string  `json:"dates"`
		Weights []float64 `json:"weights"`
		Boxes   []int     `json:"boxes"`
	} `json:"daily_trend"`
	SpeciesPie struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	} `json:"species_pie"`
	CustomerBar struct {
		Names   []string  `json:"names"`
		Weights []float64 `json:"weights"`
	} `json:"customer_bar"`
}

const maxCustomerBars = 15

// BuildChartData aggregates payloads into the trend, pie, and bar series
// the HTML template renders.
func BuildChartData(payloads []domain.DailyPayload) ChartData {
	sorted := make([]domain.DailyPayload, len(payloads))
	copy(sorted, payloads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var data ChartData
	for i := range sorted {
		data.DailyTrend.Dates = append(data.DailyTrend.Dates, sorted[i].Date.String())
		data.DailyTrend.Weights = append(data.DailyTrend.Weights, sorted[i].Totals.TotalWeightLbs)
		data.DailyTrend.Boxes = append(data.DailyTrend.Boxes, sorted[i].Totals.TotalBoxes)
	}

	speciesAgg := make(map[string]float64)
	customerAgg := make(map[string]float64)
	for i := range sorted {
		for species, total := range sorted[i].Totals.SpeciesBreakdown {
			speciesAgg[species] += total.WeightLbs
		}
		for customer, total := range sorted[i].Totals.CustomerBreakdown {
			customerAgg[customer] += total.WeightLbs
		}
	}

	speciesKeys := make([]string, 0, len(speciesAgg))
	for k := range speciesAgg {
		speciesKeys = append(speciesKeys, k)
	}
	sort.Slice(speciesKeys, func(i, j int) bool {
		if speciesAgg[speciesKeys[i]] != speciesAgg[speciesKeys[j]] {
			return speciesAgg[speciesKeys[i]] > speciesAgg[speciesKeys[j]]
		}
		return speciesKeys[i] < speciesKeys[j]
	})
	for _, k := range speciesKeys {
		data.SpeciesPie.Labels = append(data.SpeciesPie.Labels, k)
		data.SpeciesPie.Values = append(data.SpeciesPie.Values, speciesAgg[k])
	}

	customerKeys := make([]string, 0, len(customerAgg))
	for k := range customerAgg {
		customerKeys = append(customerKeys, k)
	}
	sort.Slice(customerKeys, func(i, j int) bool {
		if customerAgg[customerKeys[i]] != customerAgg[customerKeys[j]] {
			return customerAgg[customerKeys[i]] > customerAgg[customerKeys[j]]
		}
		return customerKeys[i] < customerKeys[j]
	})
	if len(customerKeys) > maxCustomerBars {
		customerKeys = customerKeys[:maxCustomerBars]
	}
	for _, k := range customerKeys {
		data.CustomerBar.Names = append(data.CustomerBar.Names, k)
		data.CustomerBar.Weights = append(data.CustomerBar.Weights, customerAgg[k])
	}

	return data
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>TunaDex {{.Title}} Report</title>
    <script src="https://cdn.plot.ly/plotly-latest.min.js"></script>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
               max-width: 1200px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .card { background: white; border-radius: 8px; padding: 20px;
                margin: 16px 0; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
        h1 { color: #1a365d; }
        pre { white-space: pre-wrap; font-family: 'SF Mono', Menlo, monospace; font-size: 13px; }
        .chart { height: 420px; }
    </style>
</head>
<body>
    <h1>TunaDex {{.Title}} Report</h1>
    <div class="card"><div id="trend" class="chart"></div></div>
    <div class="card"><div id="species" class="chart"></div></div>
    <div class="card"><div id="customers" class="chart"></div></div>
    <div class="card"><pre>{{.Markdown}}</pre></div>
    <script>
        const chartData = {{.ChartJSON}};
        Plotly.newPlot('trend', [{
            x: chartData.daily_trend.dates,
            y: chartData.daily_trend.weights,
            type: 'scatter',
            mode: 'lines+markers',
            name: 'Weight (lbs)'
        }], {title: 'Daily Volume Trend'});
        Plotly.newPlot('species', [{
            labels: chartData.species_pie.labels,
            values: chartData.species_pie.values,
            type: 'pie'
        }], {title: 'Species Distribution'});
        Plotly.newPlot('customers', [{
            x: chartData.customer_bar.names,
            y: chartData.customer_bar.weights,
            type: 'bar'
        }], {title: 'Top Customers by Weight'});
    </script>
</body>
</html>
`))

// RenderHTML wraps a Markdown report and its chart data into a
// self-contained HTML document.
func RenderHTML(reportType string, markdown string, payloads []domain.DailyPayload) (string, error) {
	chartJSON, err := json.Marshal(BuildChartData(payloads))
	if err != nil {
		return "", fmt.Errorf("marshaling chart data: %w", err)
	}

	title := strings.ToUpper(reportType[:1]) + reportType[1:]
	var b strings.Builder
	err = htmlTemplate.Execute(&b, struct {
		Title     string
		Markdown  string
		ChartJSON template.JS
	}{
		Title:     title,
		Markdown:  markdown,
		ChartJSON: template.JS(chartJSON),
	})
	if err != nil {
		return "", fmt.Errorf("rendering report HTML: %w", err)
	}
	return b.String(), nil
}
