// Package emoji detects emoji in display text and rasterizes color emoji
// glyphs from an SVG asset set. Glyph rasterization is a capability: it is
// available only when an asset directory is configured and present, and the
// renderer falls back to plain font glyphs otherwise.
package emoji

import (
	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster of the display text, tagged with whether
// it should render as a color emoji glyph.
type Cluster struct {
	Text  string
	Emoji bool
}

// Clusters splits text into grapheme clusters. Emoji sequences (including
// ZWJ sequences, flags and keycaps) come back as single clusters, so the
// renderer can treat each as one glyph.
func Clusters(text string) []Cluster {
	var out []Cluster
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		out = append(out, Cluster{Text: cluster, Emoji: isEmojiCluster(cluster)})
	}
	return out
}

// Contains reports whether text holds at least one emoji cluster.
func Contains(text string) bool {
	for _, c := range Clusters(text) {
		if c.Emoji {
			return true
		}
	}
	return false
}

// isEmojiCluster reports whether a single grapheme cluster renders as emoji.
// A cluster qualifies if it contains a pictographic rune, a regional
// indicator pair, or a keycap combining mark.
func isEmojiCluster(cluster string) bool {
	for _, r := range cluster {
		if isPictographic(r) {
			return true
		}
		if r == 0x20E3 { // combining enclosing keycap
			return true
		}
	}
	return false
}

// isPictographic covers the emoji blocks that matter for display text. The
// stdlib unicode tables do not expose Extended_Pictographic, so the ranges
// are listed here.
func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA00 && r <= 0x1FAFF: // extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x26FF: // misc symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r == 0x2B50 || r == 0x2B55: // star, heavy circle
		return true
	case r >= 0x2B05 && r <= 0x2B07: // heavy arrows
		return true
	case r == 0x203C || r == 0x2049: // double/interrobang exclamation
		return true
	case r >= 0x2194 && r <= 0x21AA: // arrow symbols with emoji presentation
		return true
	}
	return false
}
