package recommender

import (
	"fmt"
	"strings"
)

// Preference is a recognized dietary preference tag.
type Preference string

const (
	Omnivore      Preference = "Omnivore"
	Vegetarian    Preference = "Vegetarian"
	Vegan         Preference = "Vegan"
	Keto          Preference = "Keto"
	LowCarb       Preference = "Low_Carb"
	LowSodium     Preference = "Low_Sodium"
	Paleo         Preference = "Paleo"
	Mediterranean Preference = "Mediterranean"
)

var preferenceAliases = map[string]Preference{
	"omnivore":      Omnivore,
	"vegetarian":    Vegetarian,
	"vegan":         Vegan,
	"keto":          Keto,
	"low_carb":      LowCarb,
	"lowcarb":       LowCarb,
	"low_sodium":    LowSodium,
	"lowsodium":     LowSodium,
	"paleo":         Paleo,
	"mediterranean": Mediterranean,
}

// ParsePreference normalizes a raw tag. Matching ignores case and treats
// spaces and hyphens as underscores.
func ParsePreference(raw string) (Preference, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if p, ok := preferenceAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreference, raw)
}

// Preferences is an ordered, de-duplicated set of preference tags.
type Preferences []Preference

// ParsePreferences parses every tag. No tags means Omnivore.
func ParsePreferences(raw []string) (Preferences, error) {
	var out Preferences
	for _, tag := range raw {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		p, err := ParsePreference(tag)
		if err != nil {
			return nil, err
		}
		if !out.Has(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = Preferences{Omnivore}
	}
	return out, nil
}

// Has reports whether p is in the set.
func (ps Preferences) Has(p Preference) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

// Strings returns the tags as plain strings.
func (ps Preferences) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
