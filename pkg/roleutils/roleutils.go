package roleutils

import (
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/zekurio/ascent/pkg/discordutils"
)

// GetSortedGuildRoles returns the roles of a guild ordered by
// position, highest first unless reversed.
func GetSortedGuildRoles(s *discordgo.Session, guildID string, reversed bool) ([]*discordgo.Role, error) {
	guild, err := discordutils.GetGuild(s, guildID)
	if err != nil {
		return nil, err
	}

	roles := make([]*discordgo.Role, len(guild.Roles))
	copy(roles, guild.Roles)

	sort.Slice(roles, func(i, j int) bool {
		if reversed {
			return roles[i].Position < roles[j].Position
		}
		return roles[i].Position > roles[j].Position
	})

	return roles, nil
}

// GetSortedMemberRoles returns the roles of a member ordered by
// position. With includeEveryone, the @everyone role is appended as
// the least significant entry.
func GetSortedMemberRoles(s *discordgo.Session, guildID, memberID string, reversed, includeEveryone bool) ([]*discordgo.Role, error) {
	member, err := discordutils.GetMember(s, guildID, memberID)
	if err != nil {
		return nil, err
	}

	guildRoles, err := GetSortedGuildRoles(s, guildID, reversed)
	if err != nil {
		return nil, err
	}

	memberRoles := map[string]bool{}
	for _, rID := range member.Roles {
		memberRoles[rID] = true
	}

	var roles []*discordgo.Role
	for _, r := range guildRoles {
		if memberRoles[r.ID] || (includeEveryone && r.ID == guildID) {
			roles = append(roles, r)
		}
	}

	return roles, nil
}
