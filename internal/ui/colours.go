package ui

import "github.com/charmbracelet/lipgloss"

// ANSI colours for plain log lines
const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m"
)

var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// MethodColor returns the colour of an HTTP method, gray for anything unknown
func MethodColor(method string) string {
	if color, ok := MethodColors[method]; ok {
		return color
	}
	return Gray
}

// Terminal theme, ANSI 16 colour indexes so it follows the user's palette
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ErrorBanner renders an inline error, empty when msg is empty
func ErrorBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return ErrorStyle.Render("Error: " + msg)
}
