package inits

import (
	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/internal/webserver"
)

func InitWebserver(ctn di.Container) *webserver.Webserver {
	cfg := ctn.Get(static.DiConfig).(models.Config)
	if !cfg.Webserver.Enabled {
		return nil
	}

	ws := webserver.New(ctn)

	go func() {
		log.Info("Webserver listening", "addr", cfg.Webserver.Addr)
		if err := ws.ListenAndServeBlocking(); err != nil {
			log.Error("Webserver failed", "err", err)
		}
	}()

	return ws
}
