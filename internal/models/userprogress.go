package models

import "time"

// UserProgress is the persisted XP record of a member, keyed by
// (UserID, GuildID). Level is a cached value derived from XP; the
// store keeps it consistent after every XP mutation.
type UserProgress struct {
	UserID          string
	GuildID         string
	XP              int64
	Level           int
	TotalMessages   int64
	VoiceMinutes    int64
	VoiceJoinTime   time.Time
	LastVoiceXPTime time.Time
	LastMessageTime time.Time
}

// Tracked reports whether the record currently carries a voice join
// marker, i.e. the user is a candidate for voice XP accrual.
func (u *UserProgress) Tracked() bool {
	return !u.VoiceJoinTime.IsZero()
}

// VoiceXPStart returns the instant the next voice XP computation
// measures from: the last credited instant if any, else the join time.
func (u *UserProgress) VoiceXPStart() time.Time {
	if !u.LastVoiceXPTime.IsZero() {
		return u.LastVoiceXPTime
	}
	return u.VoiceJoinTime
}
