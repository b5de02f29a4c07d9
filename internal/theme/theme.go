package theme

import (
	"fmt"
	"log"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mehrbod2002/fxmobile/internal/storage"
)

type Mode string

const (
	ModeSystem Mode = "system"
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSystem, ModeLight, ModeDark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid theme mode: %q", s)
}

type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Primary    lipgloss.Color
	Success    lipgloss.Color
	Danger     lipgloss.Color
	Warning    lipgloss.Color
}

var (
	LightPalette = Palette{
		Background: lipgloss.Color("#FFFFFF"),
		Surface:    lipgloss.Color("#F4F6FA"),
		Text:       lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#6B7280"),
		Primary:    lipgloss.Color("#1E5EFF"),
		Success:    lipgloss.Color("#16A34A"),
		Danger:     lipgloss.Color("#DC2626"),
		Warning:    lipgloss.Color("#D97706"),
	}
	DarkPalette = Palette{
		Background: lipgloss.Color("#0B0F19"),
		Surface:    lipgloss.Color("#151B2B"),
		Text:       lipgloss.Color("#F9FAFB"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Primary:    lipgloss.Color("#4C82FF"),
		Success:    lipgloss.Color("#22C55E"),
		Danger:     lipgloss.Color("#F87171"),
		Warning:    lipgloss.Color("#FBBF24"),
	}
)

// Theme resolves a mode to one of the two palettes. For ModeSystem the
// systemDark hook reports the OS setting.
type Theme struct {
	store      storage.Store
	systemDark func() bool

	mu   sync.RWMutex
	mode Mode
}

func New(store storage.Store, systemDark func() bool) *Theme {
	if systemDark == nil {
		systemDark = lipgloss.HasDarkBackground
	}
	return &Theme{store: store, systemDark: systemDark, mode: ModeSystem}
}

// Load restores the saved mode. Failures are logged and keep ModeSystem.
func (t *Theme) Load() {
	if t.store == nil {
		return
	}
	val, ok, err := t.store.Get(storage.KeyThemeMode)
	if err != nil {
		log.Printf("Failed to load theme mode: %v", err)
		return
	}
	if !ok {
		return
	}
	mode, err := ParseMode(val)
	if err != nil {
		log.Printf("Ignoring stored theme mode: %v", err)
		return
	}
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
}

// SetMode switches mode and saves it. A save failure is logged; the mode
// still applies for this run.
func (t *Theme) SetMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.Set(storage.KeyThemeMode, string(mode)); err != nil {
			log.Printf("Failed to save theme mode: %v", err)
		}
	}
	return nil
}

func (t *Theme) Mode() Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func (t *Theme) IsDark() bool {
	switch t.Mode() {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	return t.systemDark()
}

func (t *Theme) Colors() Palette {
	if t.IsDark() {
		return DarkPalette
	}
	return LightPalette
}

// Style returns a text style in the given palette color.
func (t *Theme) Style(pick func(Palette) lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(pick(t.Colors()))
}
