package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/timekeeper/internal"
)

const clockWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	agendaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	clockBase = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center).
			Padding(1, 0)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	noticeStyles = map[internal.NoticeLevel]lipgloss.Style{
		internal.NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		internal.NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		internal.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	recordStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedRecordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	onTimeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	overRecordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var stateColors = map[internal.VisualState]lipgloss.Color{
	internal.VisualNormal:   lipgloss.Color("42"),
	internal.VisualWarning:  lipgloss.Color("214"),
	internal.VisualOvertime: lipgloss.Color("196"),
}

// clockStyle colours the clock face by state. In overtime the face shrinks
// with the intensity scale and alternates colour on each blink phase.
func clockStyle(d internal.DisplayUpdate, blinkOn bool) lipgloss.Style {
	color := stateColors[d.State]
	width := clockWidth
	if d.State == internal.VisualOvertime {
		width = int(math.Round(float64(clockWidth) * d.Intensity.Scale))
		if blinkOn {
			color = lipgloss.Color("88")
		}
	}
	return clockBase.
		Width(width).
		Foreground(color).
		BorderForeground(color)
}
