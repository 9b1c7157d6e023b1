package slashcommands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/zekrotja/ken"

	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/permissions"
	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/arrayutils"

	"github.com/zekurio/ascent/internal/models"
)

type XP struct{}

var (
	_ ken.SlashCommand         = (*XP)(nil)
	_ permissions.CommandPerms = (*XP)(nil)
)

func (c *XP) Name() string {
	return "xp"
}

func (c *XP) Description() string {
	return "Administrate the XP records of this guild."
}

func (c *XP) Version() string {
	return "1.0.0"
}

func (c *XP) Type() discordgo.ApplicationCommandType {
	return discordgo.ChatApplicationCommand
}

func (c *XP) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Overwrite the XP of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "The new XP total.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Add or subtract XP of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "The XP delta, negative to subtract.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reset",
			Description: "Delete the XP record of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "resetvoice",
			Description: "Force-reset all voice tracking markers of this guild.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "restamp",
					Description: "Re-stamp markers to now instead of clearing them.",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "resetguild",
			Description: "Delete every XP record of this guild.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reward",
			Description: "Set or remove a level reward role.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The reward role.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "The level to hand the role out at, 0 to remove.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "removeold",
					Description: "Keep only the highest reached reward role.",
				},
			},
		},
	}
}

func (c *XP) Perm() string {
	return "as.guild.admin.xp"
}

func (c *XP) SubPerms() []permissions.SubCommandPerms {
	return []permissions.SubCommandPerms{
		{
			Perm:        "resetguild",
			Explicit:    true,
			Description: "Allows wiping all XP records of a guild.",
		},
	}
}

func (c *XP) Run(ctx ken.Context) (err error) {
	if err = ctx.Defer(); err != nil {
		return
	}

	err = ctx.HandleSubCommands(
		ken.SubCommandHandler{Name: "set", Run: c.set},
		ken.SubCommandHandler{Name: "add", Run: c.add},
		ken.SubCommandHandler{Name: "reset", Run: c.reset},
		ken.SubCommandHandler{Name: "resetvoice", Run: c.resetVoice},
		ken.SubCommandHandler{Name: "resetguild", Run: c.resetGuild},
		ken.SubCommandHandler{Name: "reward", Run: c.reward},
	)

	return
}

func (c *XP) set(ctx ken.SubCommandContext) (err error) {
	user := ctx.Options().GetByName("user").UserValue(ctx)
	amount := ctx.Options().GetByName("amount").IntValue()

	lvl := ctx.Get(static.DiLeveling).(leveling.Provider)
	rec, err := lvl.SetXP(user.ID, ctx.GetEvent().GuildID, amount)
	if err != nil {
		return err
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: fmt.Sprintf("XP of **%s** set to `%d` (level `%d`).",
			user.Username, rec.XP, rec.Level),
	}).Send().DeleteAfter(10 * time.Second).Error
}

func (c *XP) add(ctx ken.SubCommandContext) (err error) {
	user := ctx.Options().GetByName("user").UserValue(ctx)
	amount := ctx.Options().GetByName("amount").IntValue()

	lvl := ctx.Get(static.DiLeveling).(leveling.Provider)
	rec, err := lvl.AddXP(user.ID, ctx.GetEvent().GuildID, amount)
	if err != nil {
		return err
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: fmt.Sprintf("XP of **%s** is now `%d` (level `%d`).",
			user.Username, rec.XP, rec.Level),
	}).Send().DeleteAfter(10 * time.Second).Error
}

func (c *XP) reset(ctx ken.SubCommandContext) (err error) {
	user := ctx.Options().GetByName("user").UserValue(ctx)

	lvl := ctx.Get(static.DiLeveling).(leveling.Provider)
	if err = lvl.ResetUser(user.ID, ctx.GetEvent().GuildID); err != nil {
		return err
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: fmt.Sprintf("XP record of **%s** has been deleted.", user.Username),
	}).Send().DeleteAfter(10 * time.Second).Error
}

func (c *XP) resetVoice(ctx ken.SubCommandContext) (err error) {
	restamp := false
	if v, ok := ctx.Options().GetByNameOptional("restamp"); ok {
		restamp = v.BoolValue()
	}

	vt := ctx.Get(static.DiVoiceTracker).(voicetracker.Provider)
	if err = vt.EmergencyReset(ctx.GetEvent().GuildID, restamp); err != nil {
		return err
	}

	action := "cleared"
	if restamp {
		action = "re-stamped"
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: fmt.Sprintf("All voice tracking markers have been %s.", action),
	}).Send().DeleteAfter(10 * time.Second).Error
}

func (c *XP) resetGuild(ctx ken.SubCommandContext) (err error) {
	db := ctx.Get(static.DiDatabase).(database.Database)
	if err = db.FlushGuildData(ctx.GetEvent().GuildID); err != nil {
		return err
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: "All XP records of this guild have been deleted.",
	}).Send().DeleteAfter(10 * time.Second).Error
}

func (c *XP) reward(ctx ken.SubCommandContext) (err error) {
	role := ctx.Options().GetByName("role").RoleValue(ctx)
	level := int(ctx.Options().GetByName("level").IntValue())

	guildID := ctx.GetEvent().GuildID
	db := ctx.Get(static.DiDatabase).(database.Database)

	rewards, err := db.GetRoleRewards(guildID)
	if err != nil {
		if !dberr.IsNotFound(err) {
			return err
		}
		rewards = &models.RoleRewards{GuildID: guildID}
	}

	if v, ok := ctx.Options().GetByNameOptional("removeold"); ok {
		rewards.RemoveOld = v.BoolValue()
	}

	// drop any existing entry of the role, re-adding it unless the
	// level is zero
	for i, rr := range rewards.RewardRoles {
		if rr.RoleID == role.ID {
			rewards.RewardRoles = arrayutils.RemoveLazy(rewards.RewardRoles, rewards.RewardRoles[i])
			break
		}
	}

	msg := fmt.Sprintf("Reward role <@&%s> has been removed.", role.ID)
	if level > 0 {
		rewards.RewardRoles = append(rewards.RewardRoles, models.RewardRole{
			RoleID: role.ID,
			Level:  level,
		})
		msg = fmt.Sprintf("Reward role <@&%s> is now handed out at level `%d`.", role.ID, level)
	}

	if err = db.SetRoleRewards(*rewards); err != nil {
		return err
	}

	return ctx.FollowUpEmbed(&discordgo.MessageEmbed{
		Description: msg,
	}).Send().DeleteAfter(10 * time.Second).Error
}
