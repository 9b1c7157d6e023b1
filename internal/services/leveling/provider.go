package leveling

import "github.com/zekurio/ascent/internal/models"

// Source describes which activity path caused a level-up.
type Source string

const (
	SourceMessage Source = "message"
	SourceVoice   Source = "voice"
)

// Notifier receives level-up events. Delivery is fire-and-forget;
// a failing notifier never rolls back an XP award.
type Notifier interface {
	NotifyLevelUp(guildID, userID string, newLevel int, rec *models.UserProgress, source Source)
}

// Provider is the interface for the leveling service which owns the
// level curve and all XP award decisions.
type Provider interface {
	// Curve returns the level curve in effect.
	Curve() *Curve

	// AwardMessageXP applies the message XP rule for one qualifying
	// message: the fixed amount is granted when the cooldown has
	// passed, otherwise nothing happens. Triggers a level-up
	// notification when the award crosses a level boundary.
	AwardMessageXP(userID, guildID string) error

	// SetXP overwrites the XP of a record and recomputes its level.
	SetXP(userID, guildID string, xp int64) (*models.UserProgress, error)

	// AddXP applies a signed XP delta, clamped at zero, and recomputes
	// the level so a decrement never leaves it stale-high.
	AddXP(userID, guildID string, delta int64) (*models.UserProgress, error)

	// ResetUser hard-deletes the record of a user.
	ResetUser(userID, guildID string) error
}
