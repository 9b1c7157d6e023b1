package slashcommands

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/xid"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"
	"github.com/zekrotja/ken"

	"github.com/zekurio/ascent/internal/middlewares"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/permissions"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

const defaultLeaderboardSize = 10

type Leaderboard struct{}

var (
	_ ken.SlashCommand            = (*Leaderboard)(nil)
	_ permissions.CommandPerms    = (*Leaderboard)(nil)
	_ middlewares.CommandCooldown = (*Leaderboard)(nil)
)

func (c *Leaderboard) Name() string {
	return "leaderboard"
}

func (c *Leaderboard) Description() string {
	return "Display the XP leaderboard of this guild."
}

func (c *Leaderboard) Version() string {
	return "1.1.0"
}

func (c *Leaderboard) Type() discordgo.ApplicationCommandType {
	return discordgo.ChatApplicationCommand
}

func (c *Leaderboard) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: fmt.Sprintf("Number of entries (default %d, max 25).", defaultLeaderboardSize),
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "chart",
			Description: "Attach an XP bar chart (default `false`).",
		},
	}
}

func (c *Leaderboard) Perm() string {
	return "as.chat.leaderboard"
}

func (c *Leaderboard) SubPerms() []permissions.SubCommandPerms {
	return nil
}

func (c *Leaderboard) Cooldown() int {
	return 30
}

func (c *Leaderboard) Run(ctx ken.Context) (err error) {
	if err = ctx.Defer(); err != nil {
		return
	}

	limit := defaultLeaderboardSize
	if v, ok := ctx.Options().GetByNameOptional("limit"); ok {
		limit = int(v.IntValue())
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 25 {
		limit = 25
	}

	withChart := false
	if v, ok := ctx.Options().GetByNameOptional("chart"); ok {
		withChart = v.BoolValue()
	}

	s := ctx.GetSession()
	guildID := ctx.GetEvent().GuildID
	db := ctx.Get(static.DiDatabase).(database.Database)

	emb, entries, err := buildLeaderboardEmbed(s, db, guildID, limit)
	if err != nil {
		return err
	}

	fum := ctx.FollowUpEmbed(emb).Send()
	if fum.Error != nil {
		return fum.Error
	}

	cb := fum.AddComponents()
	cb.AddActionsRow(func(b ken.ComponentAssembler) {
		b.Add(&discordgo.Button{
			Label:    "Refresh",
			Style:    discordgo.SecondaryButton,
			CustomID: xid.New().String(),
		}, refreshLeaderboard(db, guildID, limit))
	})
	if _, err = cb.Build(); err != nil {
		return err
	}

	if !withChart || len(entries) == 0 {
		return nil
	}

	return sendLeaderboardChart(s, ctx.GetEvent().ChannelID, entries)
}

type leaderboardEntry struct {
	Name  string
	XP    int64
	Level int
}

func buildLeaderboardEmbed(s *discordgo.Session, db database.Database, guildID string, limit int) (*discordgo.MessageEmbed, []leaderboardEntry, error) {
	recs, err := db.GetLeaderboard(guildID, limit)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]leaderboardEntry, 0, len(recs))
	description := ""
	for i, rec := range recs {
		name := rec.UserID
		if member, err := discordutils.GetMember(s, guildID, rec.UserID); err == nil {
			if member.Nick != "" {
				name = member.Nick
			} else {
				name = member.User.Username
			}
		}

		entries = append(entries, leaderboardEntry{Name: name, XP: rec.XP, Level: rec.Level})
		description += fmt.Sprintf("**%d.** %s — Level `%d` · `%d` XP\n", i+1, name, rec.Level, rec.XP)
	}

	if description == "" {
		description = "Nobody has earned XP yet."
	}

	emb := &discordgo.MessageEmbed{
		Color:       static.ColorDefault,
		Title:       "XP Leaderboard",
		Description: description,
	}

	return emb, entries, nil
}

func refreshLeaderboard(db database.Database, guildID string, limit int) func(ctx ken.ComponentContext) bool {
	return func(ctx ken.ComponentContext) bool {
		if err := ctx.Defer(); err != nil {
			return false
		}

		emb, _, err := buildLeaderboardEmbed(ctx.GetSession(), db, guildID, limit)
		if err != nil {
			return false
		}

		event := ctx.GetEvent()
		_, err = ctx.GetSession().ChannelMessageEditEmbed(
			event.ChannelID, event.Message.ID, emb)

		return err == nil
	}
}

func sendLeaderboardChart(s *discordgo.Session, channelID string, entries []leaderboardEntry) error {
	values := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		values = append(values, chart.Value{
			Label: e.Name,
			Value: float64(e.XP),
		})
	}

	bar := chart.BarChart{
		Width:  1024,
		Height: 512,
		Bars:   values,
		Background: chart.Style{
			FillColor: drawing.ColorTransparent,
		},
	}

	buff := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buff); err != nil {
		return err
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		File: &discordgo.File{
			Name:   "leaderboard.png",
			Reader: buff,
		},
	})

	return err
}
