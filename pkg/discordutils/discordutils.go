package discordutils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"

	"github.com/zekurio/ascent/internal/util/static"
)

// GetGuild returns a guild from the state cache, falling back to the
// API when uncached.
func GetGuild(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return nil, err
		}
	}
	return guild, nil
}

// GetMember returns a guild member from the state cache, falling back
// to the API when uncached.
func GetMember(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			return nil, err
		}
		member.GuildID = guildID
	}
	return member, nil
}

// GetUser returns a user from the state cache, falling back to the API
// when uncached.
func GetUser(s *discordgo.Session, userID string) (*discordgo.User, error) {
	for _, g := range s.State.Guilds {
		if m, err := s.State.Member(g.ID, userID); err == nil {
			return m.User, nil
		}
	}
	return s.User(userID)
}

// GetChannel returns a channel from the state cache, falling back to
// the API when uncached.
func GetChannel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			return nil, err
		}
	}
	return channel, nil
}

// GetVoiceMembers returns the members currently connected to the given
// voice channel.
func GetVoiceMembers(s *discordgo.Session, guildID, channelID string) ([]*discordgo.Member, error) {
	guild, err := GetGuild(s, guildID)
	if err != nil {
		return nil, err
	}

	var members []*discordgo.Member
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		member, err := GetMember(s, guildID, vs.UserID)
		if err != nil {
			continue
		}
		members = append(members, member)
	}

	return members, nil
}

// SendMessageDM sends a direct message to the given user.
func SendMessageDM(s *discordgo.Session, userID, content string) (*discordgo.Message, error) {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.ChannelMessageSend(ch.ID, content)
}

// GetMessageLink assembles the jump link of a message.
func GetMessageLink(msg *discordgo.Message, guildID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, msg.ChannelID, msg.ID)
}

// GetInviteLink assembles the OAuth invite link of the bot session.
func GetInviteLink(s *discordgo.Session) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&scope=%s&permissions=%d",
		s.State.User.ID, static.OAuthScopes, static.InvitePermission)
}

// IsAdmin reports whether the member carries a role with administrator
// permission in the guild.
func IsAdmin(g *discordgo.Guild, m *discordgo.Member) bool {
	if m == nil || g == nil {
		return false
	}

	for _, r := range g.Roles {
		if r.Permissions&discordgo.PermissionAdministrator != 0 {
			for _, mrID := range m.Roles {
				if r.ID == mrID {
					return true
				}
			}
		}
	}

	return false
}

// TimeFromID extracts the creation time embedded in a Discord
// snowflake ID.
func TimeFromID(id string) (time.Time, error) {
	sf, err := snowflake.ParseString(id)
	if err != nil {
		return time.Time{}, err
	}
	// Discord epoch, 2015-01-01T00:00:00Z
	ms := (sf.Int64() >> 22) + 1420070400000
	return time.UnixMilli(ms), nil
}
