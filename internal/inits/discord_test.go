package inits

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sarulabs/di/v2"
	"github.com/stretchr/testify/assert"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/notifier"
	"github.com/zekurio/ascent/internal/services/presence"
	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/static"
)

type stubDatabase struct {
	database.Database
}

// buildTestContainer wires the session, presence, notifier, leveling
// and tracker definitions exactly like main does, with the store
// stubbed out.
func buildTestContainer(t *testing.T) di.Container {
	b, err := di.NewBuilder()
	assert.Nil(t, err)

	defs := []di.Def{
		{
			Name: static.DiConfig,
			Build: func(ctn di.Container) (interface{}, error) {
				return models.DefaultConfig, nil
			},
		},
		{
			Name: static.DiDatabase,
			Build: func(ctn di.Container) (interface{}, error) {
				return &stubDatabase{}, nil
			},
		},
		{
			Name: static.DiDiscord,
			Build: func(ctn di.Container) (interface{}, error) {
				return InitDiscord(ctn)
			},
		},
		{
			Name: static.DiPresence,
			Build: func(ctn di.Container) (interface{}, error) {
				return presence.InitPresence(ctn), nil
			},
		},
		{
			Name: static.DiNotifier,
			Build: func(ctn di.Container) (interface{}, error) {
				return notifier.InitNotifier(ctn), nil
			},
		},
		{
			Name: static.DiLeveling,
			Build: func(ctn di.Container) (interface{}, error) {
				return leveling.InitLeveling(ctn), nil
			},
		},
		{
			Name: static.DiVoiceTracker,
			Build: func(ctn di.Container) (interface{}, error) {
				return voicetracker.InitVoiceTracker(ctn), nil
			},
		},
		{
			Name: static.DiScheduler,
			Build: func(ctn di.Container) (interface{}, error) {
				return InitScheduler(ctn), nil
			},
		},
	}

	for _, d := range defs {
		assert.Nil(t, b.Add(d))
	}

	return b.Build()
}

func TestContainerResolvesWithoutCycle(t *testing.T) {
	ctn := buildTestContainer(t)

	assert.NotPanics(t, func() {
		s := ctn.Get(static.DiDiscord).(*discordgo.Session)
		assert.NotNil(t, s)

		vt := ctn.Get(static.DiVoiceTracker).(voicetracker.Provider)
		assert.NotNil(t, vt)
	})
}

func TestRegisterListeners(t *testing.T) {
	ctn := buildTestContainer(t)

	assert.NotPanics(t, func() {
		RegisterListeners(ctn)
	})
}
