package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/arrayutils"
	"github.com/zekurio/ascent/pkg/discordutils"
)

// ChannelNotifier delivers level-up announcements to the configured
// guild channel and hands out reward roles. Delivery failures are
// logged and swallowed; the XP state is already committed when a
// notification is emitted.
type ChannelNotifier struct {
	s     *discordgo.Session
	db    database.Database
	curve *leveling.Curve
	cfg   models.LevelingConfig
}

var _ leveling.Notifier = (*ChannelNotifier)(nil)

func InitNotifier(ctn di.Container) *ChannelNotifier {
	cfg := ctn.Get(static.DiConfig).(models.Config)

	return &ChannelNotifier{
		s:     ctn.Get(static.DiDiscord).(*discordgo.Session),
		db:    ctn.Get(static.DiDatabase).(database.Database),
		curve: leveling.NewCurve(cfg.Leveling),
		cfg:   cfg.Leveling,
	}
}

func (n *ChannelNotifier) NotifyLevelUp(guildID, userID string, newLevel int, rec *models.UserProgress, source leveling.Source) {
	member, err := discordutils.GetMember(n.s, guildID, userID)
	if err != nil {
		log.With(err).Error("Failed resolving member for level-up", "GuildID", guildID, "UserID", userID)
		return
	}

	n.applyRoleRewards(guildID, member, newLevel)

	channelID := n.findAnnounceChannel(guildID)
	if channelID == "" {
		log.Debug("No level-up channel found", "GuildID", guildID)
		return
	}

	name := member.Nick
	if name == "" {
		name = member.User.Username
	}

	emb := &discordgo.MessageEmbed{
		Color:       n.curve.TierColor(newLevel),
		Title:       "Level up!",
		Description: fmt.Sprintf("**%s** reached level **%d** 🎉", name, newLevel),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: member.User.AvatarURL("64x64"),
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total XP",
				Value:  fmt.Sprintf("`%d`", rec.XP),
				Inline: true,
			},
			{
				Name:   "Source",
				Value:  string(source),
				Inline: true,
			},
		},
	}

	if _, err = n.s.ChannelMessageSendEmbed(channelID, emb); err != nil {
		log.With(err).Error("Failed sending level-up message",
			"GuildID", guildID, "ChannelID", channelID)
	}
}

// findAnnounceChannel returns the ID of the configured announcement
// channel of a guild, or empty when the guild has none.
func (n *ChannelNotifier) findAnnounceChannel(guildID string) string {
	guild, err := discordutils.GetGuild(n.s, guildID)
	if err != nil {
		return ""
	}

	for _, ch := range guild.Channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == n.cfg.ChannelName {
			return ch.ID
		}
	}

	return ""
}

func (n *ChannelNotifier) applyRoleRewards(guildID string, member *discordgo.Member, level int) {
	rewards, err := n.db.GetRoleRewards(guildID)
	if err != nil {
		if !dberr.IsNotFound(err) {
			log.With(err).Error("Failed loading role rewards", "GuildID", guildID)
		}
		return
	}

	for _, roleID := range rewards.RolesForLevel(level) {
		if arrayutils.Contains(member.Roles, roleID) {
			continue
		}
		if err := n.s.GuildMemberRoleAdd(guildID, member.User.ID, roleID); err != nil {
			log.With(err).Error("Failed adding reward role",
				"GuildID", guildID, "UserID", member.User.ID, "RoleID", roleID)
		}
	}

	for _, roleID := range rewards.ObsoleteRoles(level) {
		if !arrayutils.Contains(member.Roles, roleID) {
			continue
		}
		if err := n.s.GuildMemberRoleRemove(guildID, member.User.ID, roleID); err != nil {
			log.With(err).Error("Failed removing obsolete reward role",
				"GuildID", guildID, "UserID", member.User.ID, "RoleID", roleID)
		}
	}
}
