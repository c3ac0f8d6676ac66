package services

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/yeremiapane/restaurant-pos/utils"
)

const statusChartImage = "status-chart"

// WriteAnalyticsPDF renders analytics as a one-page A4 report.
func WriteAnalyticsPDF(w io.Writer, a OrderAnalytics, restaurantName, currency string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Order analytics"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(restaurantName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(periodLabel(a)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		pdf.CellFormat(90, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "", 1, "R", false, 0, "")
	}

	section("Summary")
	row("Orders", strconv.Itoa(a.OrderCount))
	row("Cancelled", strconv.Itoa(a.CancelledCount))
	row("Revenue", utils.FormatCurrency(a.Revenue, currency))
	row("Average ticket", utils.FormatCurrency(a.AverageTicket, currency))
	row("Outstanding", utils.FormatCurrency(a.Outstanding, currency))

	section("Orders by status")
	for _, k := range sortedKeys(a.ByStatus) {
		row(k, strconv.Itoa(a.ByStatus[k]))
	}
	if png, err := statusChartPNG(a.ByStatus); err != nil {
		utils.InfoLogger.Warnf("Skipping status chart: %v", err)
	} else if png != nil {
		pdf.RegisterImageOptionsReader(statusChartImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(statusChartImage, pdf.GetX(), 0, 120, 60, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	section("Orders by type")
	for _, k := range sortedKeys(a.ByType) {
		row(k, strconv.Itoa(a.ByType[k]))
	}

	section("Payments")
	for _, k := range sortedKeys(a.ByPaymentStatus) {
		row(k, strconv.Itoa(a.ByPaymentStatus[k]))
	}
	for _, m := range a.PaymentMethods {
		row(fmt.Sprintf("%s (%d)", m.Method, m.Count), utils.FormatCurrency(m.Amount, currency))
	}

	section("Top products")
	for _, p := range a.TopProducts {
		row(p.Name, strconv.Itoa(p.Quantity))
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func periodLabel(a OrderAnalytics) string {
	const layout = "02/01/2006"
	switch {
	case a.From != nil && a.To != nil:
		return "Period: " + a.From.Format(layout) + " - " + a.To.Format(layout)
	case a.From != nil:
		return "Since " + a.From.Format(layout)
	case a.To != nil:
		return "Until " + a.To.Format(layout)
	default:
		return "All orders"
	}
}

// statusChartPNG draws counts as a bar chart. It returns nil when there is
// nothing to draw.
func statusChartPNG(counts map[string]int) ([]byte, error) {
	keys := sortedKeys(counts)
	if len(keys) == 0 {
		return nil, nil
	}

	maxCount := 0
	bars := make([]chart.Value, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, chart.Value{Label: k, Value: float64(counts[k])})
		if counts[k] > maxCount {
			maxCount = counts[k]
		}
	}

	graph := chart.BarChart{
		Width:    1200,
		Height:   600,
		BarWidth: 80,
		YAxis:    chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)}},
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
