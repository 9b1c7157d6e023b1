package listeners

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

type ListenerGuildCreate struct {
	cfg models.Config
	vt  voicetracker.Provider
}

func NewListenerGuildCreate(ctn di.Container) *ListenerGuildCreate {
	return &ListenerGuildCreate{
		cfg: ctn.Get(static.DiConfig).(models.Config),
		vt:  ctn.Get(static.DiVoiceTracker).(voicetracker.Provider),
	}
}

// GuildLimit leaves freshly joined guilds once the configured guild
// limit is exceeded.
func (g *ListenerGuildCreate) GuildLimit(s *discordgo.Session, e *discordgo.GuildCreate) {
	// guild create also fires for every guild on connect; only act on
	// actual fresh joins
	if time.Since(e.JoinedAt) > time.Minute {
		return
	}

	limit := g.cfg.Discord.GuildLimit
	if limit == -1 {
		return
	}

	if len(s.State.Guilds) > limit {
		_, err := discordutils.SendMessageDM(s, e.OwnerID,
			fmt.Sprintf("Sorry, the instance owner disallowed me to join more than %d guilds.", limit))
		if err != nil {
			log.With(err).Error("Failed to send message", "GuildID", e.Guild.ID, "UserID", e.OwnerID)
		}
		err = s.GuildLeave(e.Guild.ID)
		if err != nil {
			log.With(err).Error("Failed to leave guild", "GuildID", e.Guild.ID)
			return
		}

		log.Debug("Left guild due to guild limit", "GuildID", e.Guild.ID)
	}
}

// VoiceReconcile registers members already sitting in voice channels
// when a guild becomes available, so they do not wait for their next
// rejoin to accrue XP.
func (g *ListenerGuildCreate) VoiceReconcile(s *discordgo.Session, e *discordgo.GuildCreate) {
	log.Debug("Voice reconciliation triggered", "GuildID", e.Guild.ID)
	g.vt.ReconcileGuild(e.Guild.ID)
}
