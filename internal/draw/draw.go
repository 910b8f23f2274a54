package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters used by the canvas and HUD.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI color escape sequences for terminal text.
const (
	ColorReset      = "\033[0m"
	ColorBrightCyan = "\033[96m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
