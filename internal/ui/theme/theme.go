// Package theme holds the colors, styles and icons used for terminal output.
package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet maps a semantic name to an icon.
type IconSet map[string]string

func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the shared color palette.
type Colors struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme centralizes palette, border and icon configuration.
type Theme struct {
	colors   Colors
	border   lipgloss.Border
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// WithBorder overrides the panel border.
func WithBorder(border lipgloss.Border) Option {
	return func(t *Theme) {
		t.border = border
	}
}

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	defaults := []Option{
		WithColors(Colors{
			Primary: lipgloss.Color("#3a6b4a"),
			Accent:  lipgloss.Color("#8fc279"),
			Text:    lipgloss.Color("#f8f8f8"),
			Muted:   lipgloss.Color("#9ba8c0"),
			Success: lipgloss.Color("#5dc796"),
			Error:   lipgloss.Color("#f04c56"),
		}),
		WithBorder(lipgloss.RoundedBorder()),
		WithIconSet(defaultIconSet()),
	}

	t := Theme{fallback: asciiIcons.clone()}
	for _, opt := range append(defaults, opts...) {
		opt(&t)
	}
	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

// Colors exposes the theme color palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// TitleStyle is used for the looked-up title line.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.colors.Accent)
}

// LabelStyle is used for field names in key/value output.
func (t Theme) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted)
}

// MutedStyle is used for secondary text such as sizes and IDs.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted).Faint(true)
}

// ErrorStyle is used for the one-line failure message.
func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.colors.Error)
}

// SuccessStyle is used for confirmations.
func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Success)
}

// PanelStyle wraps a block of output in a border.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.border).
		BorderForeground(t.colors.Primary).
		Padding(0, 1)
}

// BadgeStyle returns the badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(t.colors.Text)

	switch kind {
	case BadgeSuccess:
		return base.Background(t.colors.Success)
	case BadgeError:
		return base.Background(t.colors.Error)
	case BadgeMuted:
		return base.Background(t.colors.Muted)
	default:
		return base.Background(t.colors.Primary)
	}
}

// defaultIconSet chooses the best icon set for the current terminal.
func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"movie":   "🎬",
	"series":  "📺",
	"drive":   "💾",
	"folder":  "📁",
	"file":    "🎥",
	"link":    "🔗",
	"success": "✅",
	"error":   "❌",
	"history": "🕘",
	"key":     "🔑",
	"star":    "⭐",
}

var asciiIcons = IconSet{
	"movie":   "[M]",
	"series":  "[TV]",
	"drive":   "[G]",
	"folder":  "[D]",
	"file":    "[F]",
	"link":    "[→]",
	"success": "[v]",
	"error":   "[!]",
	"history": "[H]",
	"key":     "[K]",
	"star":    "[*]",
}
