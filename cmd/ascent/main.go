package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/zekrotja/ken"

	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/inits"
	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/config"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/notifier"
	"github.com/zekurio/ascent/internal/services/permissions"
	"github.com/zekurio/ascent/internal/services/presence"
	"github.com/zekurio/ascent/internal/services/voicetracker"
	"github.com/zekurio/ascent/internal/util/embedded"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/internal/webserver"
)

var (
	flagConfigPath = flag.String("c", "config.toml", "Path to config file")
)

func main() {

	flag.Parse()

	if embedded.Release == "true" {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	diBuilder, err := di.NewBuilder()
	if err != nil {
		log.With(err).Fatal("Failed to create DI builder")
	}

	// Config
	err = diBuilder.Add(di.Def{
		Name: static.DiConfig,
		Build: func(ctn di.Container) (interface{}, error) {
			return config.Parse(*flagConfigPath, "ASCENT_", models.DefaultConfig)
		},
	})
	if err != nil {
		log.With(err).Fatal("Config parsing failed")
	}

	// Database
	err = diBuilder.Add(di.Def{
		Name: static.DiDatabase,
		Build: func(ctn di.Container) (interface{}, error) {
			return inits.InitDatabase(ctn)
		},
		Close: func(obj interface{}) error {
			d := obj.(database.Database)
			log.Info("Shutting down database connection...")
			return d.Close()
		},
	})
	if err != nil {
		log.With(err).Fatal("Database creation failed")
	}

	// Permissions
	err = diBuilder.Add(di.Def{
		Name: static.DiPermissions,
		Build: func(ctn di.Container) (interface{}, error) {
			return permissions.InitPermissions(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Permissions creation failed")
	}

	// Discord Session
	err = diBuilder.Add(di.Def{
		Name: static.DiDiscord,
		Build: func(ctn di.Container) (interface{}, error) {
			return inits.InitDiscord(ctn)
		},
		Close: func(obj interface{}) error {
			return obj.(*discordgo.Session).Close()
		},
	})
	if err != nil {
		log.With(err).Fatal("Discord creation failed")
	}

	// Voice presence
	err = diBuilder.Add(di.Def{
		Name: static.DiPresence,
		Build: func(ctn di.Container) (interface{}, error) {
			return presence.InitPresence(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Presence creation failed")
	}

	// Level-up notifier
	err = diBuilder.Add(di.Def{
		Name: static.DiNotifier,
		Build: func(ctn di.Container) (interface{}, error) {
			return notifier.InitNotifier(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Notifier creation failed")
	}

	// Leveling
	err = diBuilder.Add(di.Def{
		Name: static.DiLeveling,
		Build: func(ctn di.Container) (interface{}, error) {
			return leveling.InitLeveling(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Leveling creation failed")
	}

	// Voice tracker
	err = diBuilder.Add(di.Def{
		Name: static.DiVoiceTracker,
		Build: func(ctn di.Container) (interface{}, error) {
			return voicetracker.InitVoiceTracker(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Voice tracker creation failed")
	}

	// Ken
	err = diBuilder.Add(di.Def{
		Name: static.DiCommandHandler,
		Build: func(ctn di.Container) (interface{}, error) {
			return inits.InitKen(ctn)
		},
		Close: func(obj interface{}) error {
			return obj.(*ken.Ken).Unregister()
		},
	})
	if err != nil {
		log.With(err).Fatal("Command handler creation failed")
	}

	// Scheduler
	err = diBuilder.Add(di.Def{
		Name: static.DiScheduler,
		Build: func(ctn di.Container) (interface{}, error) {
			return inits.InitScheduler(ctn), nil
		},
	})
	if err != nil {
		log.With(err).Fatal("Scheduler creation failed")
	}

	// Webserver
	err = diBuilder.Add(di.Def{
		Name: static.DiWebserver,
		Build: func(ctn di.Container) (interface{}, error) {
			return inits.InitWebserver(ctn), nil
		},
		Close: func(obj interface{}) error {
			ws, _ := obj.(*webserver.Webserver)
			if ws == nil {
				return nil
			}
			log.Info("Shutting down webserver...")
			return ws.Shutdown()
		},
	})
	if err != nil {
		log.With(err).Fatal("Webserver creation failed")
	}

	// Build dependency injection container
	ctn := diBuilder.Build()
	// Tear down dependency instances
	defer func(ctn di.Container) {
		err := ctn.DeleteWithSubContainers()
		if err != nil {
			log.With(err).Fatal("Failed to tear down dependency instances")
		}
	}(ctn)

	ctn.Get(static.DiCommandHandler)

	inits.RegisterListeners(ctn)

	s := ctn.Get(static.DiDiscord).(*discordgo.Session)
	err = s.Open()
	if err != nil {
		log.With(err).Fatal("Failed to open Discord connection")
	}

	ctn.Get(static.DiDatabase)
	ctn.Get(static.DiWebserver)

	// Block main go routine until one of the following
	// specified exit sys calls occure.
	log.Info("Started event loop. Stop with CTRL-C...")

	log.Info("Initialization finished")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	<-sc

}
