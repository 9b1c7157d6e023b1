package voicetracker

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/presence"
	"github.com/zekurio/ascent/internal/util/static"
)

// VoiceTracker is the struct that handles the voice presence tracker
// service. All persisted state lives in the store; every tick re-reads
// the tracked records so no stale in-memory copy survives across
// passes.
type VoiceTracker struct {
	db       database.Database
	presence presence.Provider
	curve    *leveling.Curve
	notifier leveling.Notifier
	cfg      models.LevelingConfig
	now      func() time.Time
	running  atomic.Bool
}

var _ Provider = (*VoiceTracker)(nil)

func InitVoiceTracker(ctn di.Container) *VoiceTracker {
	cfg := ctn.Get(static.DiConfig).(models.Config)

	return &VoiceTracker{
		db:       ctn.Get(static.DiDatabase).(database.Database),
		presence: ctn.Get(static.DiPresence).(presence.Provider),
		curve:    ctn.Get(static.DiLeveling).(leveling.Provider).Curve(),
		notifier: ctn.Get(static.DiNotifier).(leveling.Notifier),
		cfg:      cfg.Leveling,
		now:      time.Now,
	}
}

func (t *VoiceTracker) TrackJoin(userID, guildID string) error {
	return t.db.SetVoiceJoinTime(userID, guildID, t.now())
}

func (t *VoiceTracker) TrackSwitch(userID, guildID string) error {
	return t.db.SetVoiceJoinTime(userID, guildID, t.now())
}

func (t *VoiceTracker) Untrack(userID, guildID string) error {
	return t.db.ClearVoiceJoinTime(userID, guildID)
}

func (t *VoiceTracker) Tick() {
	if !t.running.CompareAndSwap(false, true) {
		log.Warn("Voice tick still running, skipping pass")
		return
	}
	defer t.running.Store(false)

	for _, guildID := range t.presence.GuildIDs() {
		t.scanGuild(guildID)
	}
}

func (t *VoiceTracker) scanGuild(guildID string) {
	tracked, err := t.db.ListTrackedInVoice(guildID)
	if err != nil {
		log.With(err).Error("Failed listing tracked voice users", "GuildID", guildID)
		return
	}

	for _, rec := range tracked {
		// one failing user must not take down the whole pass
		if err := t.processUser(rec); err != nil {
			log.With(err).Error("Voice XP award failed",
				"GuildID", guildID, "UserID", rec.UserID)
		}
	}
}

func (t *VoiceTracker) processUser(rec *models.UserProgress) error {
	vs, err := t.presence.UserVoiceState(rec.GuildID, rec.UserID)
	if err != nil {
		return err
	}

	if vs == nil {
		// stale marker, e.g. an event missed or a restart mid-session
		log.Debug("Clearing stale voice marker", "GuildID", rec.GuildID, "UserID", rec.UserID)
		return t.db.ClearVoiceJoinTime(rec.UserID, rec.GuildID)
	}

	// ineligible this tick, but the user stays tracked
	if vs.Muted || vs.Deafened || vs.Humans < 2 {
		return nil
	}

	start := rec.VoiceXPStart()
	if start.IsZero() {
		return nil
	}

	minutes := int(t.now().Sub(start) / time.Minute)
	if minutes < 1 {
		return nil
	}

	amount := int64(minutes * t.cfg.XPPerVoiceMinute)
	creditedThrough := start.Add(time.Duration(minutes) * time.Minute)

	after, err := t.db.AddVoiceXP(rec.UserID, rec.GuildID, amount, minutes, creditedThrough)
	if err != nil {
		if dberr.IsNotFound(err) {
			// record deleted mid-pass
			return nil
		}
		return err
	}

	newLevel := t.curve.LevelFromXP(after.XP, rec.UserID)
	if newLevel == after.Level {
		return nil
	}

	if err = t.db.SetLevel(rec.UserID, rec.GuildID, newLevel); err != nil {
		return err
	}

	if newLevel > after.Level && t.notifier != nil {
		after.Level = newLevel
		t.notifier.NotifyLevelUp(rec.GuildID, rec.UserID, newLevel, after, leveling.SourceVoice)
	}

	return nil
}

func (t *VoiceTracker) ReconcileGuild(guildID string) {
	occupants, err := t.presence.ChannelOccupants(guildID)
	if err != nil {
		log.With(err).Error("Failed enumerating voice channels", "GuildID", guildID)
		return
	}

	now := t.now()
	for channelID, occ := range occupants {
		if len(occ) < 2 {
			continue
		}
		for _, o := range occ {
			if o.Muted || o.Deafened {
				continue
			}
			if err := t.db.RegisterVoiceJoin(o.UserID, guildID, now); err != nil {
				log.With(err).Error("Failed registering voice join",
					"GuildID", guildID, "ChannelID", channelID, "UserID", o.UserID)
			}
		}
	}
}

func (t *VoiceTracker) ReconcileStartup() {
	for _, guildID := range t.presence.GuildIDs() {
		t.ReconcileGuild(guildID)
	}
	log.Info("Voice reconciliation finished")
}

func (t *VoiceTracker) EmergencyReset(guildID string, restamp bool) error {
	if restamp {
		return t.db.RestampAllVoiceJoinTimes(guildID, t.now())
	}
	return t.db.ClearAllVoiceJoinTimes(guildID)
}
