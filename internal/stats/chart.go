package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for charting.
type Series struct {
	Name   string
	Values []float64
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultChartHeight  = 10
	minChartWidth       = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesMarkers = []rune{'●', '○', '▪', '▫'}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
}

// RenderChart draws the series as a text chart sharing one vertical scale.
// Width <= 0 fits the chart to the terminal; height <= 0 uses the default.
func RenderChart(w io.Writer, title string, series []Series, width, height int) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	if width <= 0 {
		width = ChartWidthFor(terminalWidth())
	}
	if width < minChartWidth {
		width = minChartWidth
	}

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	grid := make([][]rune, height)
	colors := make([][]int, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		colors[y] = make([]int, width)
		for x := range grid[y] {
			grid[y][x] = ' '
			colors[y][x] = -1
		}
	}
	for si, s := range series {
		values := resampleSeries(s.Values, width)
		marker := seriesMarkers[si%len(seriesMarkers)]
		for x, v := range values {
			row := height - 1 - int(math.Round(v/maxVal*float64(height-1)))
			if row < 0 {
				row = 0
			}
			if row >= height {
				row = height - 1
			}
			grid[row][x] = marker
			colors[row][x] = si
		}
	}

	useColor := shouldUseColor(w)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	axisLabels := makeAxisLabels(height, maxVal)
	labelWidth := 0
	for _, label := range axisLabels {
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, axisLabels[y], axisSeparator))
		for x := 0; x < width; x++ {
			if useColor && colors[y][x] >= 0 {
				row.WriteString(colorPalette[colors[y][x]%len(colorPalette)].code)
				row.WriteRune(grid[y][x])
				row.WriteString(colorReset)
			} else {
				row.WriteRune(grid[y][x])
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(series, useColor)); err != nil {
		return err
	}
	return nil
}

// ChartWidthFor computes a chart width that fits the total available width.
func ChartWidthFor(totalWidth int) int {
	plotWidth := totalWidth - utf8.RuneCountInString(axisSeparator) - 4
	if plotWidth < minChartWidth {
		plotWidth = minChartWidth
	}
	return plotWidth
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// resampleSeries stretches or shrinks values to the target width by
// nearest-index sampling.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, width)
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for x := 0; x < width; x++ {
		idx := x * (len(values) - 1)
		if width > 1 {
			idx /= width - 1
		}
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[x] = values[idx]
	}
	return out
}

func makeAxisLabels(height int, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.0f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", maxVal/2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		marker := string(seriesMarkers[i%len(seriesMarkers)])
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			marker = color + marker + colorReset
		}
		parts = append(parts, fmt.Sprintf("%s %s", marker, s.Name))
	}
	return strings.Join(parts, "   ")
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
