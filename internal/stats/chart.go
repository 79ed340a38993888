// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/pomo/internal/model"
)

const (
	defaultChartHeight  = 8
	minChartWidth       = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	barColor            = "\x1b[33m"
	avgColor            = "\x1b[36m"
	terminalWidthBackup = 80
)

// Eighth-block glyphs used for fractional bar tops.
var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const avgGlyph = '•'

// DailySeries expands days into one focus count per calendar day from the
// first to the last day, filling gaps with zero.
func DailySeries(days []model.DayAggregate) ([]time.Time, []float64) {
	if len(days) == 0 {
		return nil, nil
	}
	byDay := make(map[time.Time]int, len(days))
	for _, d := range days {
		byDay[d.Day] = d.Focus
	}
	first := days[0].Day
	last := days[len(days)-1].Day
	var labels []time.Time
	var values []float64
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		labels = append(labels, day)
		values = append(values, float64(byDay[day]))
	}
	return labels, values
}

// RenderChart prints the daily focus chart sized to the terminal.
func RenderChart(w io.Writer, days []model.DayAggregate, window int) error {
	return RenderChartWithSize(w, days, window, 0, defaultChartHeight, false)
}

// RenderChartWithSize prints a bar chart of daily focus sessions with a
// moving average overlay. The newest days are kept when the series is wider
// than the available width.
func RenderChartWithSize(w io.Writer, days []model.DayAggregate, window, totalWidth, height int, forceColor bool) error {
	labels, values := DailySeries(days)
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	width := ChartWidthFor(totalWidth)
	if totalWidth <= 0 {
		width = ChartWidthFor(terminalWidth())
	}
	avg := MovingAverage(values, window)
	if len(values) > width {
		labels = labels[len(labels)-width:]
		values = values[len(values)-width:]
		avg = avg[len(avg)-width:]
	}

	maxVal := 1.0
	for i := range values {
		maxVal = math.Max(maxVal, math.Max(values[i], avg[i]))
	}
	maxVal = math.Ceil(maxVal)
	useColor := shouldUseColor(w, forceColor)
	axisWidth := len(fmt.Sprintf("%d", int(maxVal)))

	if _, err := fmt.Fprintf(w, "Focus sessions per day (avg window %d)\n", max(window, 1)); err != nil {
		return err
	}
	for row := height - 1; row >= 0; row-- {
		label := ""
		switch row {
		case height - 1:
			label = fmt.Sprintf("%d", int(maxVal))
		case 0:
			label = "0"
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator))
		for i, v := range values {
			b.WriteString(chartCell(v, avg[i], maxVal, row, height, useColor))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	footer := fmt.Sprintf("%*s%s%s", axisWidth, "", axisSeparator, axisDates(labels))
	if _, err := fmt.Fprintln(w, strings.TrimRight(footer, " ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func chartCell(value, avg, maxVal float64, row, height int, useColor bool) string {
	units := float64(height*8) / maxVal
	barEighths := int(math.Round(value * units))
	avgRow := int(math.Floor(avg * units / 8))
	if avgRow >= height {
		avgRow = height - 1
	}
	cellEighths := barEighths - row*8
	var glyph rune
	switch {
	case cellEighths >= 8:
		glyph = barGlyphs[8]
	case cellEighths > 0:
		glyph = barGlyphs[cellEighths]
	case avg > 0 && row == avgRow:
		if useColor {
			return avgColor + string(avgGlyph) + colorReset
		}
		return string(avgGlyph)
	default:
		return " "
	}
	if useColor {
		return barColor + string(glyph) + colorReset
	}
	return string(glyph)
}

func axisDates(labels []time.Time) string {
	if len(labels) == 0 {
		return ""
	}
	first := labels[0].Format("01-02")
	if len(labels) < len(first)*2+1 {
		return first
	}
	last := labels[len(labels)-1].Format("01-02")
	gap := len(labels) - len(first) - len(last)
	return first + strings.Repeat(" ", gap) + last
}

// ChartWidthFor computes how many day columns fit in totalWidth.
func ChartWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minChartWidth
	}
	axisWidth := 2 + len([]rune(axisSeparator))
	return max(totalWidth-axisWidth, minChartWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
