package listeners

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/util/static"
)

type ListenerGuildRemove struct {
	db database.Database
}

func NewListenerGuildRemove(ctn di.Container) *ListenerGuildRemove {
	return &ListenerGuildRemove{
		db: ctn.Get(static.DiDatabase).(database.Database),
	}
}

func (g *ListenerGuildRemove) FlushGuildData(s *discordgo.Session, e *discordgo.GuildDelete) {
	err := g.db.FlushGuildData(e.ID)
	if err != nil {
		log.With(err).Error("Failed to flush guild data")
		return
	}
}
