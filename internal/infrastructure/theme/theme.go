// ABOUTME: Per-station stylesheet built from brand colors and the social palette
// ABOUTME: Dark variants follow either the OS preference or a .dark class
package theme

import (
	"fmt"
	"strings"

	"github.com/oszuidwest/radio-site/internal/domain/station"
)

// Social network colors shared by every station.
const (
	Bluesky       = "#00A8E8"
	Facebook      = "#3B5999"
	FacebookDark  = "#5B79C9"
	WhatsApp      = "#25D366"
	Email         = "#6b7280"
	EmailDark     = "#d1d5db"
	autoInlineMax = 4096
)

type DarkMode string

const (
	DarkMedia DarkMode = "media"
	DarkClass DarkMode = "class"
)

type InlineMode string

const (
	InlineAlways InlineMode = "always"
	InlineAuto   InlineMode = "auto"
	InlineNever  InlineMode = "never"
)

type Theme struct {
	dark   DarkMode
	inline InlineMode
}

func New(dark DarkMode, inline InlineMode) (*Theme, error) {
	switch dark {
	case DarkMedia, DarkClass:
	default:
		return nil, fmt.Errorf("unknown dark mode %q", dark)
	}
	switch inline {
	case InlineAlways, InlineAuto, InlineNever:
	default:
		return nil, fmt.Errorf("unknown inline mode %q", inline)
	}
	return &Theme{dark: dark, inline: inline}, nil
}

// Stylesheet renders the CSS for one station.
func (t *Theme) Stylesheet(s station.Station) string {
	var b strings.Builder

	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  --brand-color: %s;\n", s.Color)
	fmt.Fprintf(&b, "  --brand-color-dark: %s;\n", s.ColorDark)
	b.WriteString("}\n")

	light := []rule{
		{".bg-brand", "background-color", "var(--brand-color)"},
		{".text-brand", "color", "var(--brand-color)"},
		{".border-brand", "border-color", "var(--brand-color)"},
		{".bg-brand-dark", "background-color", "var(--brand-color-dark)"},
		{".text-social-bluesky", "color", Bluesky},
		{".bg-social-bluesky", "background-color", Bluesky},
		{".text-social-facebook", "color", Facebook},
		{".bg-social-facebook", "background-color", Facebook},
		{".text-social-whatsapp", "color", WhatsApp},
		{".bg-social-whatsapp", "background-color", WhatsApp},
		{".text-social-email", "color", Email},
		{".bg-social-email", "background-color", Email},
	}
	for _, r := range light {
		r.write(&b, "")
	}

	dark := []rule{
		{".dark\\:bg-brand", "background-color", "var(--brand-color-dark)"},
		{".dark\\:text-brand", "color", "var(--brand-color-dark)"},
		{".text-social-facebook", "color", FacebookDark},
		{".bg-social-facebook", "background-color", FacebookDark},
		{".text-social-email", "color", EmailDark},
		{".bg-social-email", "background-color", EmailDark},
	}

	switch t.dark {
	case DarkClass:
		for _, r := range dark {
			r.write(&b, ".dark ")
		}
	default:
		b.WriteString("@media (prefers-color-scheme: dark) {\n")
		for _, r := range dark {
			b.WriteString("  ")
			r.write(&b, "")
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// Inline reports whether css should be embedded in the page rather than linked.
func (t *Theme) Inline(css string) bool {
	switch t.inline {
	case InlineAlways:
		return true
	case InlineNever:
		return false
	default:
		return len(css) <= autoInlineMax
	}
}

type rule struct {
	selector, property, value string
}

func (r rule) write(b *strings.Builder, scope string) {
	fmt.Fprintf(b, "%s%s { %s: %s; }\n", scope, r.selector, r.property, r.value)
}
