package inits

import (
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/postgres"
	"github.com/zekurio/ascent/internal/util/static"
)

func InitDatabase(ctn di.Container) (database.Database, error) {
	cfg := ctn.Get(static.DiConfig).(models.Config)
	return postgres.InitPostgres(cfg.Postgres)
}
