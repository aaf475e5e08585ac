package main

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/lab600/netpaddle/session"
	"github.com/lab600/netpaddle/sim"
)

const (
	courtCols = 41
	courtRows = 15
)

// renderCourt draws the normalized court as a character grid, the opponent
// at the top and the local paddle at the bottom.
func renderCourt(v session.View) string {
	grid := make([][]rune, courtRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", courtCols))
	}

	col := func(x float64) int {
		c := int(x * float64(courtCols-1))
		return max(0, min(courtCols-1, c))
	}
	row := func(y float64) int {
		r := int(y * float64(courtRows-1))
		return max(0, min(courtRows-1, r))
	}
	drawPaddle := func(r int, x float64) {
		from := col(x - sim.PaddleHalfWidth)
		to := col(x + sim.PaddleHalfWidth)
		for c := from; c <= to; c++ {
			grid[r][c] = '='
		}
	}

	drawPaddle(0, v.OpponentPaddle.X)
	drawPaddle(courtRows-1, v.Paddle.X)
	grid[row(v.Ball.Y)][col(v.Ball.X)] = 'o'

	var b strings.Builder
	b.WriteString(pterm.Sprintfln("  you %d : %d them", v.MyScore, v.OpponentScore))
	border := "+" + strings.Repeat("-", courtCols) + "+\n"
	b.WriteString(border)
	for _, line := range grid {
		b.WriteString("|" + string(line) + "|\n")
	}
	b.WriteString(border)
	return b.String()
}
