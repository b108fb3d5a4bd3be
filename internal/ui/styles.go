package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/lit/internal/config"
)

// StyleManager encapsulates all preview styles
type StyleManager struct {
	Comment lipgloss.Style
	Code    lipgloss.Style
	Gutter  lipgloss.Style
	Match   lipgloss.Style

	// Chrome styles
	Status  lipgloss.Style
	Prompt  lipgloss.Style
	Dim     lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Code:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Gutter:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Match:   lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Status:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Divider: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	s.Comment = lipgloss.NewStyle().Foreground(parseANSIColor(config.GetColorComment()))
	s.Code = lipgloss.NewStyle().Foreground(parseANSIColor(config.GetColorCode()))
	s.Status = lipgloss.NewStyle().Bold(true).Foreground(parseANSIColor(config.GetColorStatus()))
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
