package inits

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/listeners"
	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/util/static"
)

func InitDiscord(ctn di.Container) (*discordgo.Session, error) {
	cfg := ctn.Get(static.DiConfig).(models.Config)

	s, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.MakeIntent(static.Intents)

	s.StateEnabled = true
	s.State.TrackChannels = true
	s.State.TrackMembers = true
	s.State.TrackVoice = true

	return s, nil
}

// RegisterListeners attaches the gateway event handlers to the
// session. It must run after the container is built: the listeners
// resolve the voice tracker, which resolves services holding the
// session themselves, so wiring them inside the session definition
// would cycle the container.
func RegisterListeners(ctn di.Container) {
	s := ctn.Get(static.DiDiscord).(*discordgo.Session)

	s.AddHandler(listeners.NewListenerReady(ctn).Handler)

	s.AddHandler(listeners.NewListenerMessageCreate(ctn).Handler)

	s.AddHandler(listeners.NewListenerVoiceStateUpdate(ctn).Handler)

	guildCreate := listeners.NewListenerGuildCreate(ctn)
	s.AddHandler(guildCreate.GuildLimit)
	s.AddHandler(guildCreate.VoiceReconcile)

	s.AddHandler(listeners.NewListenerGuildRemove(ctn).FlushGuildData)
}
