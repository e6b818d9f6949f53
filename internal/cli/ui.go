package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Shared terminal palette.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// StyleTitle renders section headings.
var StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// Status glyphs, colored per severity.
var (
	glyphSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	glyphError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	glyphWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	glyphInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	glyphArrow   = styleDim.Render("→")
)

func printSuccess(format string, args ...any) {
	fmt.Println(glyphSuccess + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(glyphError + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(glyphWarning + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(glyphInfo + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output-file line.
func printFile(path string) {
	fmt.Println("  " + glyphArrow + " " + styleValue.Render(path))
}

// printKeyValue prints a labeled value in a fixed-width key column.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printStats prints cohort counts on one line, tagged with whether the
// kinship matrix came from the cache.
func printStats(individuals, families, pedigrees int, cached bool) {
	sep := styleDim.Render(" · ")
	line := "  " +
		styleDim.Render(fmt.Sprintf("%d individuals", individuals)) + sep +
		styleDim.Render(fmt.Sprintf("%d families", families)) + sep +
		styleDim.Render(fmt.Sprintf("%d pedigrees", pedigrees)) + sep
	if cached {
		line += lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	} else {
		line += styleDim.Render("fresh")
	}
	fmt.Println(line)
}

func printNewline() {
	fmt.Println()
}
