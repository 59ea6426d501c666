package utils

import (
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// BarChart draws y over the categories x as a single series named ylabel.
func BarChart(x []string, y []float64, title, xlabel, ylabel string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: ylabel}),
		charts.WithXAxisOpts(opts.XAxis{Name: xlabel}),
	)
	data := make([]opts.BarData, len(y))
	for i, v := range y {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(x).AddSeries(ylabel, data)
	return bar
}

// RenderPage writes the charts of page to an html file.
func RenderPage(page *components.Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
