package presence

// VoiceState is the live voice presence of a single user.
type VoiceState struct {
	ChannelID string
	Muted     bool
	Deafened  bool
	// Humans is the count of non-bot members connected to the same
	// channel, including the user itself.
	Humans int
}

// Occupant is a non-bot member connected to a voice channel.
type Occupant struct {
	UserID   string
	Muted    bool
	Deafened bool
}

// Provider abstracts the live gateway voice state so the tracker core
// stays independent of any concrete chat client.
type Provider interface {
	// GuildIDs enumerates the guilds currently visible to the bot.
	GuildIDs() []string

	// UserVoiceState returns the live voice presence of a user, or
	// nil when the user is not connected to any voice channel.
	UserVoiceState(guildID, userID string) (*VoiceState, error)

	// ChannelOccupants enumerates all voice channels of a guild with
	// their non-bot occupants.
	ChannelOccupants(guildID string) (map[string][]Occupant, error)
}
