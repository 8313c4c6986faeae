// Package achievements loads the achievement condition catalog once at
// startup and scans user stats against it. The scan is pure and
// idempotent: it never mutates the user's unlocked set, it only reports
// which identifiers newly qualify.
package achievements

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/sword-drill/backend/internal/models"
	"github.com/sword-drill/backend/internal/points"
)

// Condition types understood by the scanner. Entries with any other type
// load fine but never unlock.
const (
	TypeQuizCount     = "quiz_count"
	TypeStreak        = "streak"
	TypeVerseMastered = "verse_mastered"
	TypePoints        = "points"
)

// DefaultIcon decorates entries whose display name carries no icon token.
const DefaultIcon = "⭐"

// Definition is one immutable achievement: a display name, an icon, and
// the stat threshold that unlocks it.
type Definition struct {
	ID    string
	Tier  string
	Name  string
	Icon  string
	Type  string
	Value int
}

// Catalog holds all definitions in their declared scan order: tier-major
// (Beginner through Elite), then declaration order within each tier.
type Catalog struct {
	ordered []Definition
	byID    map[string]Definition
}

// tierOrder fixes the scan order across tiers. The JSON document may list
// tiers in any order; this list is authoritative.
var tierOrder = []string{points.LevelBeginner, points.LevelIntermediate, points.LevelAdvanced, points.LevelElite}

type catalogEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// nameIconRe splits "Some Name 🌱" into name text and a single trailing
// icon token.
var nameIconRe = regexp.MustCompile(`^(.*\S)\s+(\S+)$`)

// parseDisplayName extracts name and icon from a raw catalog string. A
// string without a trailing token is all name; an empty string falls back
// to the supplied default and the default icon.
func parseDisplayName(raw, fallback string) (name, icon string) {
	if raw == "" {
		return fallback, DefaultIcon
	}
	if m := nameIconRe.FindStringSubmatch(raw); m != nil {
		return m[1], m[2]
	}
	return raw, DefaultIcon
}

// LoadCatalog reads and validates the condition table from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievement catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from a JSON document of the form
// {"Beginner": [{"id": ..., "name": ..., "type": ..., "value": ...}], ...}.
// It rejects unknown tiers, duplicate ids, and threshold tables where a
// higher tier's value undercuts a lower tier's within the same type.
func ParseCatalog(data []byte) (*Catalog, error) {
	var tiers map[string][]catalogEntry
	if err := json.Unmarshal(data, &tiers); err != nil {
		return nil, fmt.Errorf("parse achievement catalog: %w", err)
	}

	for tier := range tiers {
		known := false
		for _, t := range tierOrder {
			if t == tier {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("achievement catalog: unknown tier %q", tier)
		}
	}

	c := &Catalog{byID: make(map[string]Definition)}

	// maxByType carries the largest threshold seen in all lower tiers, so
	// each tier can be checked for monotonicity against everything below it.
	maxByType := make(map[string]int)

	for _, tier := range tierOrder {
		tierMax := make(map[string]int)
		for _, entry := range tiers[tier] {
			if entry.ID == "" {
				return nil, fmt.Errorf("achievement catalog: tier %s has an entry without an id", tier)
			}
			if _, dup := c.byID[entry.ID]; dup {
				return nil, fmt.Errorf("achievement catalog: duplicate id %q", entry.ID)
			}

			if prev, ok := maxByType[entry.Type]; ok && entry.Value < prev {
				return nil, fmt.Errorf("achievement catalog: tier %s %s threshold %d is below a lower tier's %d",
					tier, entry.Type, entry.Value, prev)
			}
			if entry.Value > tierMax[entry.Type] {
				tierMax[entry.Type] = entry.Value
			}

			name, icon := parseDisplayName(entry.Name, entry.ID)
			def := Definition{
				ID:    entry.ID,
				Tier:  tier,
				Name:  name,
				Icon:  icon,
				Type:  entry.Type,
				Value: entry.Value,
			}
			c.ordered = append(c.ordered, def)
			c.byID[def.ID] = def
		}
		for typ, v := range tierMax {
			if v > maxByType[typ] {
				maxByType[typ] = v
			}
		}
	}

	return c, nil
}

// All returns the definitions in scan order.
func (c *Catalog) All() []Definition {
	return c.ordered
}

// Definition looks up a single achievement by id.
func (c *Catalog) Definition(id string) (Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// CheckForNewAchievements returns the ids of achievements the user now
// qualifies for and has not already unlocked, in catalog scan order.
func (c *Catalog) CheckForNewAchievements(user models.UserProgress) []string {
	unlocked := make(map[string]bool, len(user.Achievements))
	for _, id := range user.Achievements {
		unlocked[id] = true
	}

	var newlyQualified []string
	for _, def := range c.ordered {
		if unlocked[def.ID] {
			continue
		}

		qualifies := false
		switch def.Type {
		case TypeQuizCount:
			qualifies = user.QuizzesCompleted >= def.Value
		case TypeStreak:
			qualifies = user.CurrentStreak >= def.Value
		case TypeVerseMastered:
			qualifies = user.VersesMemorized >= def.Value
		case TypePoints:
			qualifies = user.TotalPoints >= def.Value
		}

		if qualifies {
			newlyQualified = append(newlyQualified, def.ID)
		}
	}

	return newlyQualified
}
