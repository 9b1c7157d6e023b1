package database

import (
	"time"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/pkg/perms"
)

// Database is the interface for our database service which is the
// single owner of all persisted user progress state. Every XP-mutating
// operation is a single atomic statement so a gateway event and a
// tracker tick racing on the same record cannot lose updates.
type Database interface {
	Close() error

	// User progress

	// GetUser returns the progress record of a user in a guild, or
	// dberr.ErrNotFound when no record exists.
	GetUser(userID, guildID string) (*models.UserProgress, error)

	// UpsertMessageXP atomically awards message XP, increments the
	// message count and stamps lastMessageTime, creating the record on
	// first contact. The award only applies when the stored
	// lastMessageTime is unset or not after cutoff; awarded reports
	// whether it did. The returned record reflects the stored xp and
	// level after the award; it is nil when the award did not apply.
	UpsertMessageXP(userID, guildID string, amount int64, now, cutoff time.Time) (rec *models.UserProgress, awarded bool, err error)

	// AddVoiceXP atomically awards voice XP, increments voiceMinutes
	// and advances lastVoiceXPTime to creditedThrough, the instant up
	// to which whole minutes were credited.
	AddVoiceXP(userID, guildID string, amount int64, minutes int, creditedThrough time.Time) (*models.UserProgress, error)

	// SetLevel stores the cached level of a record.
	SetLevel(userID, guildID string, level int) error

	// SetXP overwrites xp and level of a record, creating it when
	// missing.
	SetXP(userID, guildID string, xp int64, level int) error

	// AddXP atomically applies a signed xp delta, clamped at zero,
	// and returns the record afterwards.
	AddXP(userID, guildID string, delta int64) (*models.UserProgress, error)

	// Voice markers

	// SetVoiceJoinTime stamps a fresh voice join, resetting the
	// credit origin; any prior partial minute is discarded.
	SetVoiceJoinTime(userID, guildID string, ts time.Time) error

	// RegisterVoiceJoin stamps a voice join only when the record is
	// not already tracked, creating it when missing.
	RegisterVoiceJoin(userID, guildID string, ts time.Time) error

	// ClearVoiceJoinTime removes the voice join marker. Clearing an
	// untracked record is a no-op.
	ClearVoiceJoinTime(userID, guildID string) error

	// ClearAllVoiceJoinTimes removes every voice join marker of a
	// guild.
	ClearAllVoiceJoinTimes(guildID string) error

	// RestampAllVoiceJoinTimes resets every tracked record of a guild
	// to a fresh join at ts.
	RestampAllVoiceJoinTimes(guildID string, ts time.Time) error

	// ListTrackedInVoice returns every record of a guild carrying a
	// voice join marker.
	ListTrackedInVoice(guildID string) ([]*models.UserProgress, error)

	// GetLeaderboard returns the top records of a guild ordered by xp.
	GetLeaderboard(guildID string, limit int) ([]*models.UserProgress, error)

	// DeleteUser hard-deletes the record of a user in a guild.
	DeleteUser(userID, guildID string) error

	// Role rewards

	GetRoleRewards(guildID string) (*models.RoleRewards, error)
	SetRoleRewards(r models.RoleRewards) error

	// Permissions

	GetPermissions(guildID string) (map[string]perms.PermsArray, error)
	SetPermissions(guildID, roleID string, perms perms.PermsArray) error

	// Data management

	FlushGuildData(guildID string) error
}
