package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

const duneArt = `          .   *        .          
      _.-'''-._        ___        
  _.-'         '-.__.-'   '-._    
-'     ~~   ~~         ~~     '-._`

const duneCompact = "~ ~ ~ ~ ~"

// RenderDunes returns the dune art styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderDunes(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(duneCompact)
	}
	return style.Render(duneArt)
}
