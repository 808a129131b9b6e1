package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var laneHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229"))

var slotStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("245"))

var cursorSlotStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("236"))

var provisionalStyle = lipgloss.NewStyle().
	Italic(true).
	Foreground(lipgloss.Color("250"))

var statusOKStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	MarginTop(1)

var modalStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(1, 2)

var focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
var blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
