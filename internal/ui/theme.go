package ui

import "github.com/charmbracelet/lipgloss"

// Badge names understood by Styles.BadgeStyle.
const (
	badgeAvailable   = "available"
	badgeUnavailable = "unavailable"
	badgePending     = "pending"
	badgeFavorite    = "favorite"
)

// Theme is a named palette. Colors are hex strings so they can be fed to
// both lipgloss styles and BgStyle.
type Theme struct {
	Name string

	Background    string
	Surface       string
	SurfaceAlt    string
	Border        string
	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	BadgeColors map[string]string
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
	Title  lipgloss.Style

	badgeColors map[string]string
	background  string
	muted       string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Footer: fg(t.Muted).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Warning).Bold(true),
		Title:  fg(t.Accent).Bold(true),

		badgeColors: t.BadgeColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// BadgeStyle returns an inverted pill for badge; unknown badges use the
// muted color.
func (s Styles) BadgeStyle(badge string) lipgloss.Style {
	color := s.badgeColors[badge]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground pins every style to bgColor so text drawn inside a panel
// does not punch through to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText,
		&out.Header, &out.Footer, &out.Logo, &out.Title,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Reading Room", "Archive", "Daylight"}

var themes = map[string]Theme{
	"Reading Room": readingRoomTheme(),
	"Archive":      archiveTheme(),
	"Daylight":     daylightTheme(),
}

// GetTheme returns the named theme, or the first one when unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func ThemeNames() []string {
	return themeOrder
}

func badges(available, unavailable, pending, favorite string) map[string]string {
	return map[string]string{
		badgeAvailable:   available,
		badgeUnavailable: unavailable,
		badgePending:     pending,
		badgeFavorite:    favorite,
	}
}

// readingRoomTheme is a dark green-and-brass palette.
func readingRoomTheme() Theme {
	return Theme{
		Name:          "Reading Room",
		Background:    "#111814",
		Surface:       "#18221c",
		SurfaceAlt:    "#203027",
		Border:        "#3a5446",
		SelectionBg:   "#2c4a3b",
		SelectionText: "#e8e4d4",
		Text:          "#e8e4d4",
		Muted:         "#9aa89c",
		Faint:         "#6f7f73",
		Accent:        "#d4a94f",
		Success:       "#7fbf7f",
		Warning:       "#e0c070",
		Danger:        "#d8665f",
		BadgeColors:   badges("#7fbf7f", "#d8665f", "#e0c070", "#b78fd6"),
	}
}

// archiveTheme is a cool slate palette.
func archiveTheme() Theme {
	return Theme{
		Name:          "Archive",
		Background:    "#0d1117",
		Surface:       "#161b22",
		SurfaceAlt:    "#1f2630",
		Border:        "#36414f",
		SelectionBg:   "#23476b",
		SelectionText: "#f0f3f6",
		Text:          "#dfe5ec",
		Muted:         "#8b97a6",
		Faint:         "#647082",
		Accent:        "#6cb6ff",
		Success:       "#56c271",
		Warning:       "#e3b341",
		Danger:        "#f06b6b",
		BadgeColors:   badges("#56c271", "#f06b6b", "#e3b341", "#a98ef5"),
	}
}

// daylightTheme is a paper-toned light palette.
func daylightTheme() Theme {
	return Theme{
		Name:          "Daylight",
		Background:    "#f6f1e7",
		Surface:       "#efe8d9",
		SurfaceAlt:    "#e6dcc8",
		Border:        "#b9a988",
		SelectionBg:   "#c9dcef",
		SelectionText: "#1f2a36",
		Text:          "#2b2a26",
		Muted:         "#6c6657",
		Faint:         "#928a78",
		Accent:        "#2f6ca3",
		Success:       "#2f8a4a",
		Warning:       "#a66b00",
		Danger:        "#b3362f",
		BadgeColors:   badges("#2f8a4a", "#b3362f", "#a66b00", "#7a4fb0"),
	}
}
