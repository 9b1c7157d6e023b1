package slashcommands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/zekrotja/ken"

	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/permissions"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

type Rank struct{}

var (
	_ ken.SlashCommand         = (*Rank)(nil)
	_ permissions.CommandPerms = (*Rank)(nil)
)

func (c *Rank) Name() string {
	return "rank"
}

func (c *Rank) Description() string {
	return "Display the level and XP of a member."
}

func (c *Rank) Version() string {
	return "1.0.0"
}

func (c *Rank) Type() discordgo.ApplicationCommandType {
	return discordgo.ChatApplicationCommand
}

func (c *Rank) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The member to look up (defaults to yourself).",
		},
	}
}

func (c *Rank) Perm() string {
	return "as.chat.rank"
}

func (c *Rank) SubPerms() []permissions.SubCommandPerms {
	return nil
}

func (c *Rank) Run(ctx ken.Context) (err error) {
	if err = ctx.Defer(); err != nil {
		return
	}

	user := ctx.User()
	if u, ok := ctx.Options().GetByNameOptional("user"); ok {
		user = u.UserValue(ctx)
	}

	guildID := ctx.GetEvent().GuildID

	db := ctx.Get(static.DiDatabase).(database.Database)
	lvl := ctx.Get(static.DiLeveling).(leveling.Provider)

	rec, err := db.GetUser(user.ID, guildID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return ctx.FollowUpError(
				fmt.Sprintf("**%s** has not earned any XP yet.", user.Username), "").
				Send().Error
		}
		return err
	}

	curve := lvl.Curve()
	prog := curve.Progress(rec.XP, rec.Level)

	memberSince := "unknown"
	if ts, err := discordutils.TimeFromID(user.ID); err == nil {
		memberSince = fmt.Sprintf("<t:%d:D>", ts.Unix())
	}

	emb := &discordgo.MessageEmbed{
		Color: curve.TierColor(rec.Level),
		Title: fmt.Sprintf("Rank of %s", user.Username),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: user.AvatarURL("64x64"),
		},
		Description: fmt.Sprintf("**Level %d**\n%s `%.1f%%`",
			rec.Level, progressBar(prog.Percent), prog.Percent),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "XP",
				Value:  fmt.Sprintf("`%d` / `%d`", rec.XP, prog.NextLevelXP),
				Inline: true,
			},
			{
				Name:   "Messages",
				Value:  fmt.Sprintf("`%d`", rec.TotalMessages),
				Inline: true,
			},
			{
				Name:   "Voice minutes",
				Value:  fmt.Sprintf("`%d`", rec.VoiceMinutes),
				Inline: true,
			},
			{
				Name:   "On Discord since",
				Value:  memberSince,
				Inline: false,
			},
		},
	}

	return ctx.FollowUpEmbed(emb).Send().Error
}

// progressBar renders the progress percentage as a ten segment bar.
func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}

	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}
