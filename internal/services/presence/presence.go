package presence

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

// DiscordPresence implements Provider on top of the discordgo state
// cache.
type DiscordPresence struct {
	s *discordgo.Session
}

var _ Provider = (*DiscordPresence)(nil)

func InitPresence(ctn di.Container) *DiscordPresence {
	return &DiscordPresence{
		s: ctn.Get(static.DiDiscord).(*discordgo.Session),
	}
}

func (p *DiscordPresence) GuildIDs() []string {
	guilds := p.s.State.Guilds
	ids := make([]string, 0, len(guilds))
	for _, g := range guilds {
		ids = append(ids, g.ID)
	}
	return ids
}

func (p *DiscordPresence) UserVoiceState(guildID, userID string) (*VoiceState, error) {
	guild, err := discordutils.GetGuild(p.s, guildID)
	if err != nil {
		return nil, err
	}

	var own *discordgo.VoiceState
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			own = vs
			break
		}
	}

	if own == nil || own.ChannelID == "" {
		return nil, nil
	}

	humans := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != own.ChannelID {
			continue
		}
		if p.isBot(guildID, vs.UserID) {
			continue
		}
		humans++
	}

	return &VoiceState{
		ChannelID: own.ChannelID,
		Muted:     own.Mute || own.SelfMute,
		Deafened:  own.Deaf || own.SelfDeaf,
		Humans:    humans,
	}, nil
}

func (p *DiscordPresence) ChannelOccupants(guildID string) (map[string][]Occupant, error) {
	guild, err := discordutils.GetGuild(p.s, guildID)
	if err != nil {
		return nil, err
	}

	occupants := map[string][]Occupant{}
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == "" || p.isBot(guildID, vs.UserID) {
			continue
		}
		occupants[vs.ChannelID] = append(occupants[vs.ChannelID], Occupant{
			UserID:   vs.UserID,
			Muted:    vs.Mute || vs.SelfMute,
			Deafened: vs.Deaf || vs.SelfDeaf,
		})
	}

	return occupants, nil
}

func (p *DiscordPresence) isBot(guildID, userID string) bool {
	member, err := discordutils.GetMember(p.s, guildID, userID)
	if err != nil {
		// unknown members count as human rather than silently
		// excluding them from the roster
		return false
	}
	return member.User != nil && member.User.Bot
}
