package tray

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/model"
	"github.com/jmylchreest/toastq/internal/notifications"
)

var (
	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	toastTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	toastAgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Toast is one notification raised in the tray.
type Toast struct {
	Name      string
	Body      string
	CreatedAt time.Time
}

// Age returns a human readable age relative to now.
func (t Toast) Age(now time.Time) string {
	return humanize.RelTime(t.CreatedAt, now, "ago", "from now")
}

// Content lays out the toast text for a box of the given outer width.
func (t Toast) Content(now time.Time, width int) string {
	inner := innerWidth(width)

	var b strings.Builder
	b.WriteString(toastTitleStyle.Render(truncate(t.Name, inner)))
	if t.Body != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(inner).Render(t.Body))
	}
	b.WriteString("\n")
	b.WriteString(toastAgeStyle.Render(truncate(t.Age(now), inner)))
	return b.String()
}

// Producer returns a content producer for a new toast. The content is laid
// out when the tray is drawn, so its age label is always current.
func Producer(name, body string, clk clock.Clock, width int) model.Producer[string] {
	t := Toast{Name: name, Body: body, CreatedAt: clk.Now()}
	return func() string {
		return t.Content(clk.Now(), width)
	}
}

// BoxRenderer returns a renderer that draws content as a bordered box of
// the given outer width.
func BoxRenderer(width int) notifications.Renderer[string] {
	style := toastStyle.Width(innerWidth(width) + toastStyle.GetHorizontalPadding())
	return func(content string) string {
		return style.Render(content)
	}
}

func innerWidth(width int) int {
	inner := width - toastStyle.GetHorizontalFrameSize()
	if inner < 1 {
		return 1
	}
	return inner
}

// RenderTray stacks the rendered toasts, newest first. limit caps how many
// are drawn; zero draws all of them.
func RenderTray(toasts []notifications.Rendered[string], limit int) string {
	blocks := make([]string, 0, len(toasts)+1)
	for i, t := range toasts {
		if limit > 0 && i == limit {
			blocks = append(blocks, toastAgeStyle.Render(fmt.Sprintf("+%d more", len(toasts)-limit)))
			break
		}
		blocks = append(blocks, t.Content)
	}
	if len(blocks) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// PlaceTray aligns the tray horizontally within width and shifts it by the
// controller's bottom offset. A negative offset pushes the tray down, so its
// last lines are clipped.
func PlaceTray(tray string, width int, pos config.Position, bottom int) string {
	if tray == "" {
		return ""
	}

	lines := strings.Split(tray, "\n")
	if bottom < 0 {
		drop := -bottom
		if drop >= len(lines) {
			return ""
		}
		lines = lines[:len(lines)-drop]
	}
	block := strings.Join(lines, "\n")

	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, alignment(pos), block)
}

func alignment(pos config.Position) lipgloss.Position {
	switch pos {
	case config.PositionBottomLeft:
		return lipgloss.Left
	case config.PositionBottomCenter:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
