package voicetracker

// Provider is the interface for the voice presence tracker which
// reconciles tracked voice records against elapsed time once per tick.
type Provider interface {
	// TrackJoin marks a user as tracked in voice from now on, creating
	// the record when missing.
	TrackJoin(userID, guildID string) error

	// TrackSwitch re-stamps tracking after a channel switch. The
	// partial minute spent in the old channel is not credited.
	TrackSwitch(userID, guildID string) error

	// Untrack clears the voice marker when a user leaves voice. No
	// partial-minute credit is given.
	Untrack(userID, guildID string) error

	// Tick runs one reconciliation pass over every guild. A tick never
	// overlaps a still-running previous pass.
	Tick()

	// ReconcileGuild registers all eligible members already connected
	// to voice channels of a guild which are not yet tracked.
	ReconcileGuild(guildID string)

	// ReconcileStartup runs ReconcileGuild for every visible guild so
	// users already in voice at process start do not sit in a
	// no-credit window.
	ReconcileStartup()

	// EmergencyReset force-clears every voice marker of a guild, or
	// re-stamps them to now when restamp is set. Idempotent.
	EmergencyReset(guildID string, restamp bool) error
}
