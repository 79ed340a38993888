package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	ringRadius  = 6
	ringSamples = 720
	litGlyph    = "●"
	dimGlyph    = "·"
)

type cell struct {
	row int
	col int
}

// ringCells lists the perimeter cells of the ring clockwise from the top.
// Columns are doubled so the ring looks round in a terminal.
func ringCells(radius int) []cell {
	seen := map[cell]bool{}
	var cells []cell
	r := float64(radius)
	for i := 0; i < ringSamples; i++ {
		theta := 2 * math.Pi * float64(i) / ringSamples
		c := cell{
			row: int(math.Round(r - r*math.Cos(theta))),
			col: int(math.Round(2*r + 2*r*math.Sin(theta))),
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		cells = append(cells, c)
	}
	return cells
}

// litCells returns how many of n cells are lit for fraction.
func litCells(fraction float64, n int) int {
	fraction = math.Max(0, math.Min(1, fraction))
	return int(math.Round(fraction * float64(n)))
}

// renderRing draws the ring with the first lit cells highlighted and the
// given lines centred inside it.
func renderRing(fraction float64, lit lipgloss.Style, center []string, centerStyle lipgloss.Style) string {
	cells := ringCells(ringRadius)
	height := 2*ringRadius + 1
	width := 4*ringRadius + 1
	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	on := litCells(fraction, len(cells))
	for i, c := range cells {
		if i < on {
			grid[c.row][c.col] = lit.Render(litGlyph)
			continue
		}
		grid[c.row][c.col] = ringDimStyle.Render(dimGlyph)
	}

	top := ringRadius - len(center)/2
	for i, line := range center {
		row := top + i
		if row <= 0 || row >= height-1 {
			continue
		}
		runes := []rune(line)
		start := (width - len(runes)) / 2
		for j, r := range runes {
			col := start + j
			if col <= 0 || col >= width-1 {
				continue
			}
			grid[row][col] = centerStyle.Render(string(r))
		}
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
