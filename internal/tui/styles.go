package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("29")).
			Padding(0, 1)

	sessionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	counterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	counterOverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("36"))

	cardLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	cardAnswerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
