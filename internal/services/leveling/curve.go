package leveling

import (
	"math"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/util/static"
)

// Curve is the deterministic mapping between total XP and level. The
// requirement per level compounds by Multiplier on the previous gap,
// summed with per-step truncation, so values must be computed
// iteratively rather than by a closed form.
type Curve struct {
	BaseXP         float64
	Multiplier     float64
	MaxLevel       int
	EasterEggID    string
	EasterEggLevel int
}

// NewCurve builds a Curve from the leveling config.
func NewCurve(cfg models.LevelingConfig) *Curve {
	return &Curve{
		BaseXP:         cfg.BaseXP,
		Multiplier:     cfg.Multiplier,
		MaxLevel:       cfg.MaxLevel,
		EasterEggID:    cfg.EasterEggUserID,
		EasterEggLevel: cfg.EasterEggLevel,
	}
}

// XPForLevel returns the total XP required to reach the given level.
// Level 1 and below require no XP.
func (c *Curve) XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}

	var total int64
	for i := 2; i <= level; i++ {
		total += int64(math.Floor(c.BaseXP * math.Pow(c.Multiplier, float64(i-2))))
	}

	return total
}

// LevelFromXP returns the level corresponding to the given total XP.
// The configured easter egg user always reports the sentinel level,
// regardless of XP. The candidate level is capped at MaxLevel so the
// loop terminates even under pathological configuration.
func (c *Curve) LevelFromXP(xp int64, userID string) int {
	if c.EasterEggID != "" && userID == c.EasterEggID {
		return c.EasterEggLevel
	}

	if xp < 0 {
		xp = 0
	}

	level := 1
	for level < c.MaxLevel && c.XPForLevel(level+1) <= xp {
		level++
	}

	return level
}

// Progress describes how far into the current level a given XP total
// is.
type Progress struct {
	CurrentLevelXP int64
	NextLevelXP    int64
	XPRemaining    int64
	Percent        float64
}

// Progress computes the progress of xp within the given level. All
// fields are clamped non-negative so a stale cached level cannot
// produce nonsense output.
func (c *Curve) Progress(xp int64, level int) Progress {
	cur := c.XPForLevel(level)
	next := c.XPForLevel(level + 1)

	into := xp - cur
	if into < 0 {
		into = 0
	}

	remaining := next - xp
	if remaining < 0 {
		remaining = 0
	}

	span := next - cur
	percent := 100.0
	if span > 0 {
		percent = float64(into) / float64(span) * 100
		if percent > 100 {
			percent = 100
		}
	}

	return Progress{
		CurrentLevelXP: cur,
		NextLevelXP:    next,
		XPRemaining:    remaining,
		Percent:        percent,
	}
}

// TierColor maps a level to its visual tier color. Total over all
// integer levels, including the easter egg sentinel.
func (c *Curve) TierColor(level int) int {
	if level == c.EasterEggLevel {
		return static.ColorPink
	}

	switch {
	case level < 5:
		return static.ColorGray
	case level < 10:
		return static.ColorGreen
	case level < 25:
		return static.ColorCyan
	case level < 50:
		return static.ColorYellow
	case level < 75:
		return static.ColorOrange
	default:
		return static.ColorViolet
	}
}
