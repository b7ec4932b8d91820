package renderer

import (
	"errors"
	"fmt"
	"io"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no data to chart")

const (
	chartWidth  = 800
	chartHeight = 500
)

// CategoryChart renders a category breakdown as a PNG bar or pie chart.
//
// Slices and bars are sized by the magnitude of each sum, labels keep the
// sign.
func CategoryChart(w io.Writer, shares []budget.CategoryShare, mode budget.ChartMode, base budget.Currency) error {
	values := make([]chart.Value, 0, len(shares))
	largest := 0.0
	for _, s := range shares {
		v := s.Sum.Abs().InexactFloat64()
		if v == 0 {
			continue
		}
		largest = max(largest, v)
		label := fmt.Sprintf("%s: %s", s.Category, s.Sum)
		if mode == budget.ChartPie {
			label = fmt.Sprintf("%s (%s%%)", label, s.Share.StringFixed(1))
		}
		values = append(values, chart.Value{Label: label, Value: v})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	background := chart.Style{
		Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		FillColor: chart.ColorWhite,
	}

	switch mode {
	case budget.ChartPie:
		pie := chart.PieChart{
			Title:      fmt.Sprintf("Spending by category (%v)", base),
			Width:      chartWidth,
			Height:     chartWidth,
			Values:     values,
			Background: background,
		}
		if err := pie.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("failed to render category pie chart: %w", err)
		}
	default:
		barWidth := min(60, (chartWidth-100)/(2*len(values)))
		bars := chart.BarChart{
			Title:      fmt.Sprintf("Spending by category (%v)", base),
			Width:      chartWidth,
			Height:     chartHeight,
			BarWidth:   max(barWidth, 4),
			Background: background,
			YAxis: chart.YAxis{
				Range: &chart.ContinuousRange{Min: 0, Max: largest * 1.1},
				ValueFormatter: func(v any) string {
					if f, ok := v.(float64); ok {
						return fmt.Sprintf("%.0f", f)
					}
					return ""
				},
			},
			Bars: values,
		}
		if err := bars.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("failed to render category bar chart: %w", err)
		}
	}
	return nil
}
