package models

var (
	Ok = &Status{200}
)

type Error struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Context string `json:"context,omitempty"`
}

type Status struct {
	Code int `json:"code"`
}

// RankResponse is the API representation of a user progress record.
type RankResponse struct {
	UserID        string  `json:"user_id"`
	GuildID       string  `json:"guild_id"`
	XP            int64   `json:"xp"`
	Level         int     `json:"level"`
	TotalMessages int64   `json:"total_messages"`
	VoiceMinutes  int64   `json:"voice_minutes"`
	CurrentXP     int64   `json:"current_level_xp"`
	NextLevelXP   int64   `json:"next_level_xp"`
	Percent       float64 `json:"progress_percent"`
}

// LeaderboardResponse wraps the ranked records of a guild.
type LeaderboardResponse struct {
	GuildID string         `json:"guild_id"`
	Entries []RankResponse `json:"entries"`
}
