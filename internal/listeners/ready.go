package listeners

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/scheduler"
	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
)

type ListenerReady struct {
	cfg   models.Config
	sched scheduler.Provider
	vt    voicetracker.Provider

	started bool
}

func NewListenerReady(ctn di.Container) *ListenerReady {
	return &ListenerReady{
		cfg:   ctn.Get(static.DiConfig).(models.Config),
		sched: ctn.Get(static.DiScheduler).(scheduler.Provider),
		vt:    ctn.Get(static.DiVoiceTracker).(voicetracker.Provider),
	}
}

func (l *ListenerReady) Handler(s *discordgo.Session, e *discordgo.Ready) {
	// the status line is cosmetic, scheduling below must happen
	// regardless
	if err := s.UpdateListeningStatus("your XP"); err != nil {
		log.With(err).Error("Failed updating listening status")
	}
	log.Info("Signed in!", "Username", fmt.Sprintf("%s#%s", e.User.Username, e.User.Discriminator), "ID", e.User.ID)
	log.Infof("Invite link: %s", discordutils.GetInviteLink(s))

	// ready fires again on gateway reconnects, the tick job must only
	// be scheduled once
	if l.started {
		return
	}
	l.started = true

	_, err := l.sched.Schedule(fmt.Sprintf("@every %ds", l.cfg.Leveling.VoiceTickSecs), l.vt.Tick)
	if err != nil {
		log.With(err).Error("Failed scheduling voice tick")
		return
	}

	l.sched.Start()
	l.vt.ReconcileStartup()
}
