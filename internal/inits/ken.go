package inits

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"
	"github.com/zekrotja/ken"

	"github.com/zekurio/ascent/internal/middlewares"
	"github.com/zekurio/ascent/internal/services/permissions"
	"github.com/zekurio/ascent/internal/slashcommands"
	"github.com/zekurio/ascent/internal/util/static"
)

func InitKen(ctn di.Container) (*ken.Ken, error) {
	s := ctn.Get(static.DiDiscord).(*discordgo.Session)

	k, err := ken.New(s, ken.Options{
		DependencyProvider: ctn,
		EmbedColors: ken.EmbedColors{
			Default: static.ColorDefault,
			Error:   static.ColorRed,
		},
		OnSystemError: func(context string, err error, args ...interface{}) {
			log.Error("ken system error", "context", context, "err", err)
		},
		OnCommandError: func(err error, ctx *ken.Ctx) {
			log.Error("command error", "command", ctx.Command.Name(), "err", err)
		},
	})
	if err != nil {
		return nil, err
	}

	err = k.RegisterCommands(
		new(slashcommands.Rank),
		new(slashcommands.Leaderboard),
		new(slashcommands.XP),
	)
	if err != nil {
		return nil, err
	}

	err = k.RegisterMiddlewares(
		ctn.Get(static.DiPermissions).(*permissions.Permissions),
		middlewares.NewCooldownMiddleware(),
	)
	if err != nil {
		return nil, err
	}

	return k, nil
}
