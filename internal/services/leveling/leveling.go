package leveling

import (
	"time"

	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/util/static"
)

// LevelingHandler is the struct that handles the leveling service
type LevelingHandler struct {
	db       database.Database
	cfg      models.LevelingConfig
	curve    *Curve
	notifier Notifier
	now      func() time.Time
}

var _ Provider = (*LevelingHandler)(nil)

func InitLeveling(ctn di.Container) *LevelingHandler {
	cfg := ctn.Get(static.DiConfig).(models.Config)

	return &LevelingHandler{
		db:       ctn.Get(static.DiDatabase).(database.Database),
		cfg:      cfg.Leveling,
		curve:    NewCurve(cfg.Leveling),
		notifier: ctn.Get(static.DiNotifier).(Notifier),
		now:      time.Now,
	}
}

func (h *LevelingHandler) Curve() *Curve {
	return h.curve
}

func (h *LevelingHandler) AwardMessageXP(userID, guildID string) error {
	now := h.now()
	cutoff := now.Add(-time.Duration(h.cfg.MessageCooldownSecs) * time.Second)

	rec, awarded, err := h.db.UpsertMessageXP(userID, guildID, int64(h.cfg.XPPerMessage), now, cutoff)
	if err != nil {
		return err
	}
	if !awarded {
		return nil
	}

	newLevel := h.curve.LevelFromXP(rec.XP, userID)
	if newLevel == rec.Level {
		return nil
	}

	if err = h.db.SetLevel(userID, guildID, newLevel); err != nil {
		return err
	}

	if newLevel > rec.Level && h.notifier != nil {
		rec.Level = newLevel
		h.notifier.NotifyLevelUp(guildID, userID, newLevel, rec, SourceMessage)
	}

	return nil
}

func (h *LevelingHandler) SetXP(userID, guildID string, xp int64) (*models.UserProgress, error) {
	if xp < 0 {
		xp = 0
	}

	level := h.curve.LevelFromXP(xp, userID)
	if err := h.db.SetXP(userID, guildID, xp, level); err != nil {
		return nil, err
	}

	return &models.UserProgress{
		UserID:  userID,
		GuildID: guildID,
		XP:      xp,
		Level:   level,
	}, nil
}

func (h *LevelingHandler) AddXP(userID, guildID string, delta int64) (*models.UserProgress, error) {
	rec, err := h.db.AddXP(userID, guildID, delta)
	if err != nil {
		return nil, err
	}

	newLevel := h.curve.LevelFromXP(rec.XP, userID)
	if newLevel != rec.Level {
		if err = h.db.SetLevel(userID, guildID, newLevel); err != nil {
			return nil, err
		}
		rec.Level = newLevel
	}

	return rec, nil
}

func (h *LevelingHandler) ResetUser(userID, guildID string) error {
	return h.db.DeleteUser(userID, guildID)
}
