package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 80

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig creates a Config with sensible defaults from environment.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth returns the terminal width from the COLUMNS environment
// variable, or DefaultWidth if not set or invalid.
func DetectWidth() int {
	columnsEnv := os.Getenv("COLUMNS")
	if columnsEnv == "" {
		return DefaultWidth
	}

	width, err := strconv.Atoi(columnsEnv)
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return width
}

// Color represents ANSI terminal colors.
type Color int

// Color constants
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
)

// Colorize applies ANSI color to text. If NoColor is true, returns text unchanged.
func (c Config) Colorize(text string, color Color) string {
	if c.NoColor {
		return text
	}

	var code string

	switch color {
	case ColorGreen:
		code = ansiGreen
	case ColorYellow:
		code = ansiYellow
	case ColorRed:
		code = ansiRed
	case ColorBlue:
		code = ansiBlue
	case ColorGray:
		code = ansiGray
	default:
		return text
	}

	return fmt.Sprintf("%s%s%s", code, text, ansiReset)
}

// Box drawing characters.
const (
	boxHorizontal       = "─"
	boxHeavyHorizontal  = "━"
	boxHeavyVertical    = "┃"
	boxHeavyTopLeft     = "┏"
	boxHeavyTopRight    = "┓"
	boxHeavyBottomLeft  = "┗"
	boxHeavyBottomRight = "┛"
)

// headerPadding is the space around header content.
const headerPadding = 1

// DrawSeparator draws a thin horizontal separator line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(boxHorizontal, width)
}

// DrawHeader draws a heavy-bordered section header with the title on the
// left and rightText against the right border.
func DrawHeader(title, rightText string, width int) string {
	minRequired := len(title) + len(rightText) + 4 + (headerPadding * 2)
	if width < minRequired {
		width = minRequired
	}

	innerWidth := width - 2

	topBorder := boxHeavyTopLeft + strings.Repeat(boxHeavyHorizontal, innerWidth) + boxHeavyTopRight

	contentWidth := innerWidth - (headerPadding * 2)

	var content string

	if rightText == "" {
		content = padRight(title, contentWidth)
	} else {
		gap := contentWidth - len(title) - len(rightText)
		if gap < 1 {
			gap = 1
		}

		content = title + strings.Repeat(" ", gap) + rightText
	}

	contentLine := boxHeavyVertical + strings.Repeat(" ", headerPadding) +
		content + strings.Repeat(" ", headerPadding) + boxHeavyVertical
	bottomBorder := boxHeavyBottomLeft + strings.Repeat(boxHeavyHorizontal, innerWidth) + boxHeavyBottomRight

	return topBorder + "\n" + contentLine + "\n" + bottomBorder
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}
