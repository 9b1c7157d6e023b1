package listeners

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

type ListenerVoiceStateUpdate struct {
	vt              voicetracker.Provider
	voiceStateCache map[string]*discordgo.VoiceState
}

func NewListenerVoiceStateUpdate(ctn di.Container) *ListenerVoiceStateUpdate {
	return &ListenerVoiceStateUpdate{
		vt:              ctn.Get(static.DiVoiceTracker).(voicetracker.Provider),
		voiceStateCache: map[string]*discordgo.VoiceState{},
	}
}

func (l *ListenerVoiceStateUpdate) Handler(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	oldVState := l.voiceStateCache[e.UserID]
	newVState := e.VoiceState

	l.voiceStateCache[e.UserID] = newVState

	if member, err := discordutils.GetMember(s, e.GuildID, e.UserID); err == nil && member.User.Bot {
		return
	}

	var err error
	switch {
	case (oldVState == nil || oldVState.ChannelID == "") && newVState.ChannelID != "":
		// user joined voice
		err = l.vt.TrackJoin(e.UserID, e.GuildID)

	case oldVState != nil && oldVState.ChannelID != "" && newVState.ChannelID == "":
		// user left voice
		err = l.vt.Untrack(e.UserID, e.GuildID)

	case oldVState != nil && oldVState.ChannelID != "" &&
		newVState.ChannelID != "" && oldVState.ChannelID != newVState.ChannelID:
		// user switched channels, treated as a fresh join
		err = l.vt.TrackSwitch(e.UserID, e.GuildID)
	}

	if err != nil {
		log.With(err).Error("Failed updating voice tracking",
			"GuildID", e.GuildID, "UserID", e.UserID)
	}
}
