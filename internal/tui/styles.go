// Package tui provides the terminal user interface for zelig.
package tui

import "github.com/charmbracelet/lipgloss"

// Marrakech palette: terracotta walls, saffron, majorelle blue, palm green.
var (
	colorSurface = lipgloss.Color("#1f1714")
	colorBorder  = lipgloss.Color("#5c4033")

	colorPrimary   = lipgloss.Color("#e2725b") // terracotta
	colorSecondary = lipgloss.Color("#6050dc") // majorelle
	colorAccent    = lipgloss.Color("#f4c430") // saffron
	colorSuccess   = lipgloss.Color("#5f9e6e") // palm
	colorError     = lipgloss.Color("#d9534f")

	colorText     = lipgloss.Color("#f5e6d3")
	colorTextDim  = lipgloss.Color("#bfa58a")
	colorTextMute = lipgloss.Color("#7d6a5a")
)

// Gradient colors for the loading animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#e2725b"),
	lipgloss.Color("#f08a4b"),
	lipgloss.Color("#f4c430"),
	lipgloss.Color("#5f9e6e"),
	lipgloss.Color("#3fa7a3"),
	lipgloss.Color("#6050dc"),
	lipgloss.Color("#a15fd0"),
	lipgloss.Color("#d96c8a"),
}

var (
	// Header panel style
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	// Sidebar
	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Background(colorSurface).
			Padding(1, 1)

	brandStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	brandTaglineStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Italic(true).
				MarginBottom(1)

	navItemStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			PaddingLeft(2)

	navActiveStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Messages area panel
	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1).
			MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true).
			MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// Input area panel
	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Static panels
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	panelSectionStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(colorText)

	emergencyNumberStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	// Welcome banner
	welcomeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	welcomeIconStyle = lipgloss.NewStyle().
				Foreground(colorAccent)

	// Status bar / footer
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Italic(true)

	feedbackErrorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Italic(true)
)
