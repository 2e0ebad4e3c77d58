package entities

import "fmt"

// LevelRange is an inclusive integer interval over monster levels.
type LevelRange struct {
	Label string `json:"label" yaml:"label"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max" yaml:"max"`
}

// DefaultLevelRanges are the level buckets offered by the browser, all active by default.
var DefaultLevelRanges = []LevelRange{
	{Label: "Lv. 1-10", Min: 1, Max: 10},
	{Label: "Lv. 11-20", Min: 11, Max: 20},
	{Label: "Lv. 21-30", Min: 21, Max: 30},
	{Label: "Lv. 31-40", Min: 31, Max: 40},
	{Label: "Lv. 41-50", Min: 41, Max: 50},
	{Label: "Lv. 51-60", Min: 51, Max: 60},
	{Label: "Lv. 61-70", Min: 61, Max: 70},
	{Label: "Lv. 71-80", Min: 71, Max: 80},
	{Label: "Lv. 81+", Min: 81, Max: 999},
}

// Contains reports whether level lies within [Min, Max].
func (r LevelRange) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}

// String returns the label, or "min-max" when no label is set.
func (r LevelRange) String() string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Validate checks that the range is not inverted.
func (r LevelRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("level range %s: min %d is greater than max %d", r, r.Min, r.Max)
	}
	return nil
}
