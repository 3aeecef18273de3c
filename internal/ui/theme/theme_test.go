package theme

import (
	"runtime"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

func TestIconSetCloneCreatesIndependentCopy(t *testing.T) {
	source := IconSet{"movie": "🎬"}
	clone := source.clone()

	source["movie"] = "mutated"

	if got, want := clone["movie"], "🎬"; got != want {
		t.Errorf("IconSet.clone(%v)[%q] = %q, want %q", source, "movie", got, want)
	}
}

func TestWithIconSetCopiesInput(t *testing.T) {
	icons := IconSet{"movie": "🎬"}
	theme := New(WithIconSet(icons))

	icons["movie"] = "mutated"

	if got, want := theme.Icon("movie"), "🎬"; got != want {
		t.Errorf("WithIconSet(%v) Icon(%q) = %q, want %q", icons, "movie", got, want)
	}
}

func TestThemeIconLookupOrder(t *testing.T) {
	theme := Theme{
		icons:    IconSet{"primary": "icon"},
		fallback: IconSet{"fallback": "fallback-icon"},
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "primary", key: "primary", want: "icon"},
		{name: "fallback", key: "fallback", want: "fallback-icon"},
		{name: "missing", key: "missing", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := theme.Icon(tc.key); got != tc.want {
				t.Errorf("Theme.Icon(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestNewAppliesCustomColors(t *testing.T) {
	custom := Colors{
		Primary: lipgloss.Color("#111111"),
		Accent:  lipgloss.Color("#222222"),
		Text:    lipgloss.Color("#333333"),
		Muted:   lipgloss.Color("#444444"),
		Success: lipgloss.Color("#555555"),
		Error:   lipgloss.Color("#666666"),
	}

	theme := New(WithColors(custom))

	if diff := cmp.Diff(custom, theme.Colors()); diff != "" {
		t.Errorf("New(WithColors) Colors() mismatch (-want +got):\n%s", diff)
	}
	if got := theme.ErrorStyle().GetForeground(); got != custom.Error {
		t.Errorf("ErrorStyle() foreground = %v, want %v", got, custom.Error)
	}
}

func TestNewRestoresNilIconSet(t *testing.T) {
	theme := New(WithIconSet(nil))
	want := defaultIconSet()["drive"]

	if got := theme.Icon("drive"); got != want {
		t.Errorf("New(WithIconSet(nil)) Icon(%q) = %q, want %q", "drive", got, want)
	}
}

func TestIconSetsCoverSameKeys(t *testing.T) {
	for k := range emojiIcons {
		if _, ok := asciiIcons[k]; !ok {
			t.Errorf("ascii icon set missing %q", k)
		}
	}
	if len(emojiIcons) != len(asciiIcons) {
		t.Errorf("icon sets differ in size: %d vs %d", len(emojiIcons), len(asciiIcons))
	}
}

func TestDefaultIconSetOverSSH(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows always uses ascii icons")
	}
	t.Setenv("SSH_CLIENT", "")
	t.Setenv("SSH_TTY", "")
	t.Setenv("SSH_CONNECTION", "")
	if got := defaultIconSet()["movie"]; got != emojiIcons["movie"] {
		t.Errorf("local terminal icon = %q, want emoji", got)
	}

	t.Setenv("SSH_TTY", "/dev/pts/0")
	if got := defaultIconSet()["movie"]; got != asciiIcons["movie"] {
		t.Errorf("ssh icon = %q, want ascii", got)
	}
}

func TestBadgeStyleBackgrounds(t *testing.T) {
	theme := New()
	colors := theme.Colors()

	tests := []struct {
		kind BadgeKind
		want lipgloss.Color
	}{
		{BadgeInfo, colors.Primary},
		{BadgeSuccess, colors.Success},
		{BadgeError, colors.Error},
		{BadgeMuted, colors.Muted},
	}
	for _, tt := range tests {
		if got := theme.BadgeStyle(tt.kind).GetBackground(); got != tt.want {
			t.Errorf("BadgeStyle(%d) background = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
