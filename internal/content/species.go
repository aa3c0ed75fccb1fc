// ABOUTME: Species catalog and caption-based unlock detection
// ABOUTME: Pure string heuristic, recomputed on every read, no stored state

package content

import (
	"regexp"
	"strings"

	"github.com/anglershub/hub/internal/store"
)

// Species is one entry in the unlockable catalog.
type Species struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DefaultSpecies is the built-in catalog.
var DefaultSpecies = []Species{
	{Key: "lapu-lapu", Label: "Lapu-lapu (Grouper)"},
	{Key: "maya-maya", Label: "Maya-maya (Snapper)"},
	{Key: "tuna", Label: "Tuna (Yellowfin)"},
	{Key: "mahi-mahi", Label: "Mahi-mahi (Dorado)"},
	{Key: "bangus", Label: "Bangus (Milkfish)"},
	{Key: "tilapia", Label: "Tilapia"},
	{Key: "marlin", Label: "Marlin"},
	{Key: "sailfish", Label: "Sailfish"},
	{Key: "barracuda", Label: "Barracuda"},
	{Key: "trevally", Label: "Trevally (GT)"},
	{Key: "catfish", Label: "Catfish"},
	{Key: "snapper", Label: "Red Snapper"},
}

// unlockPattern extracts the species name from a caption marker like
// "Caught one! UNLOCKED (Tuna)".
var unlockPattern = regexp.MustCompile(`(?i)UNLOCKED\s*\(\s*([^)]+)\s*\)`)

// UnlockedSpecies scans post captions for unlock markers and returns the set
// of unlocked species keys. A species is unlocked when an extracted name
// fuzzy-matches it: the name contains the key, the lowercased label contains
// the name, or the name contains the label's first word.
func UnlockedSpecies(posts []store.Post, catalog []Species) map[string]bool {
	unlocked := make(map[string]bool)

	var names []string
	for _, p := range posts {
		m := unlockPattern.FindStringSubmatch(p.Caption)
		if m == nil {
			continue
		}
		names = append(names, strings.ToLower(strings.TrimSpace(m[1])))
	}
	if len(names) == 0 {
		return unlocked
	}

	for _, s := range catalog {
		label := strings.ToLower(s.Label)
		first, _, _ := strings.Cut(label, " ")
		for _, name := range names {
			if strings.Contains(name, s.Key) ||
				strings.Contains(label, name) ||
				strings.Contains(name, first) {
				unlocked[s.Key] = true
				break
			}
		}
	}
	return unlocked
}
