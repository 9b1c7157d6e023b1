package listeners

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/util/static"
)

type ListenerMessageCreate struct {
	lvl leveling.Provider
}

func NewListenerMessageCreate(ctn di.Container) *ListenerMessageCreate {
	return &ListenerMessageCreate{
		lvl: ctn.Get(static.DiLeveling).(leveling.Provider),
	}
}

func (l *ListenerMessageCreate) Handler(s *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}

	if err := l.lvl.AwardMessageXP(e.Author.ID, e.GuildID); err != nil {
		log.With(err).Error("Failed awarding message XP",
			"GuildID", e.GuildID, "UserID", e.Author.ID)
	}
}
