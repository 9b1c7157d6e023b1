package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/util/static"
)

const (
	uidNormal = "352002717285089280"
	uidEgg    = "531861558834495498"
)

func testCurve() *Curve {
	cfg := models.DefaultConfig.Leveling
	cfg.EasterEggUserID = uidEgg
	return NewCurve(cfg)
}

func TestXPForLevel(t *testing.T) {
	c := testCurve()

	{
		assert.EqualValues(t, 0, c.XPForLevel(0))
		assert.EqualValues(t, 0, c.XPForLevel(1))
		assert.EqualValues(t, 0, c.XPForLevel(-69))
	}

	{
		assert.EqualValues(t, 35, c.XPForLevel(2))
		assert.EqualValues(t, 71, c.XPForLevel(3))
		assert.EqualValues(t, 108, c.XPForLevel(4))
	}

	{
		// strictly monotonic over the whole usable range
		prev := c.XPForLevel(1)
		for lvl := 2; lvl <= c.MaxLevel; lvl++ {
			cur := c.XPForLevel(lvl)
			assert.Greater(t, cur, prev, "level %d", lvl)
			prev = cur
		}
	}
}

func TestLevelFromXP(t *testing.T) {
	c := testCurve()

	{
		assert.Equal(t, 1, c.LevelFromXP(0, uidNormal))
		assert.Equal(t, 1, c.LevelFromXP(34, uidNormal))
		assert.Equal(t, 2, c.LevelFromXP(35, uidNormal))
		assert.Equal(t, 2, c.LevelFromXP(70, uidNormal))
		assert.Equal(t, 3, c.LevelFromXP(71, uidNormal))
	}

	{
		// exact thresholds invert back to their level
		for lvl := 2; lvl <= 60; lvl++ {
			threshold := c.XPForLevel(lvl)
			assert.Equal(t, lvl, c.LevelFromXP(threshold, uidNormal))
			assert.Equal(t, lvl-1, c.LevelFromXP(threshold-1, uidNormal))
		}
	}

	{
		// negative XP clamps instead of underflowing
		assert.Equal(t, 1, c.LevelFromXP(-500, uidNormal))
	}

	{
		// the cap holds even for absurd totals
		assert.Equal(t, c.MaxLevel, c.LevelFromXP(1<<62, uidNormal))
	}

	{
		// the easter egg user reports the sentinel regardless of XP
		assert.Equal(t, -69, c.LevelFromXP(0, uidEgg))
		assert.Equal(t, -69, c.LevelFromXP(1<<62, uidEgg))
	}

	{
		// no easter egg configured means no sentinel for anyone
		plain := testCurve()
		plain.EasterEggID = ""
		assert.Equal(t, 1, plain.LevelFromXP(0, uidEgg))
	}
}

func TestProgress(t *testing.T) {
	c := testCurve()

	{
		p := c.Progress(50, 2)
		assert.EqualValues(t, 35, p.CurrentLevelXP)
		assert.EqualValues(t, 71, p.NextLevelXP)
		assert.EqualValues(t, 21, p.XPRemaining)
		assert.InDelta(t, float64(50-35)/float64(71-35)*100, p.Percent, 0.001)
	}

	{
		// xp below the level threshold clamps to zero progress
		p := c.Progress(10, 3)
		assert.EqualValues(t, 0, p.Percent)
		assert.EqualValues(t, 108-10, p.XPRemaining)
	}

	{
		// xp beyond the next threshold clamps to full progress
		p := c.Progress(5000, 2)
		assert.EqualValues(t, 100, p.Percent)
		assert.EqualValues(t, 0, p.XPRemaining)
	}
}

func TestTierColor(t *testing.T) {
	c := testCurve()

	assert.Equal(t, static.ColorPink, c.TierColor(-69))
	assert.Equal(t, static.ColorGray, c.TierColor(1))
	assert.Equal(t, static.ColorGray, c.TierColor(4))
	assert.Equal(t, static.ColorGreen, c.TierColor(5))
	assert.Equal(t, static.ColorCyan, c.TierColor(10))
	assert.Equal(t, static.ColorYellow, c.TierColor(25))
	assert.Equal(t, static.ColorOrange, c.TierColor(50))
	assert.Equal(t, static.ColorViolet, c.TierColor(75))
	assert.Equal(t, static.ColorViolet, c.TierColor(200))
}
