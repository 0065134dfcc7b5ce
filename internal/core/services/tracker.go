package services

import (
	"strings"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// AnchorFor computes where the suggestion panel sits for a selection: just
// below the line holding the selection start, in container coordinates,
// clamped to the container box. It returns false when the buffer cannot
// measure the offset.
func AnchorFor(buf driven.TextBuffer, sel domain.Selection) (domain.CursorPosition, bool) {
	sel = sel.Clamp(buf.Len())
	bounds, ok := buf.Bounds(sel.Index)
	if !ok {
		return domain.CursorPosition{}, false
	}
	box := buf.Container()

	top := box.Top + bounds.Bottom()
	left := box.Left + bounds.Left
	return domain.CursorPosition{
		Top:  clampInt(top, box.Top, box.Bottom()),
		Left: clampInt(left, box.Left, box.Right()),
	}, true
}

// SingleToken returns the selected word when text is exactly one
// whitespace-delimited token.
func SingleToken(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return "", false
	}
	return fields[0], true
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
