package leveling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
)

// fakeStore covers just the calls the handler makes; everything else
// panics through the embedded nil interface.
type fakeStore struct {
	database.Database

	rec *models.UserProgress

	lastMessageTime time.Time
	setLevelCalls   []int
	deleted         bool
}

func (f *fakeStore) UpsertMessageXP(userID, guildID string, amount int64, now, cutoff time.Time) (*models.UserProgress, bool, error) {
	if !f.lastMessageTime.IsZero() && f.lastMessageTime.After(cutoff) {
		return nil, false, nil
	}

	f.lastMessageTime = now
	f.rec.XP += amount
	f.rec.TotalMessages++

	cp := *f.rec
	return &cp, true, nil
}

func (f *fakeStore) SetLevel(userID, guildID string, level int) error {
	f.setLevelCalls = append(f.setLevelCalls, level)
	f.rec.Level = level
	return nil
}

func (f *fakeStore) SetXP(userID, guildID string, xp int64, level int) error {
	f.rec.XP = xp
	f.rec.Level = level
	return nil
}

func (f *fakeStore) AddXP(userID, guildID string, delta int64) (*models.UserProgress, error) {
	f.rec.XP += delta
	if f.rec.XP < 0 {
		f.rec.XP = 0
	}
	cp := *f.rec
	return &cp, nil
}

func (f *fakeStore) DeleteUser(userID, guildID string) error {
	f.deleted = true
	return nil
}

type fakeNotifier struct {
	levels  []int
	sources []Source
}

func (f *fakeNotifier) NotifyLevelUp(guildID, userID string, newLevel int, rec *models.UserProgress, source Source) {
	f.levels = append(f.levels, newLevel)
	f.sources = append(f.sources, source)
}

func testHandler(store *fakeStore, n *fakeNotifier, now time.Time) *LevelingHandler {
	cfg := models.DefaultConfig.Leveling
	return &LevelingHandler{
		db:       store,
		cfg:      cfg,
		curve:    NewCurve(cfg),
		notifier: n,
		now:      func() time.Time { return now },
	}
}

func TestAwardMessageXPCooldown(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{rec: &models.UserProgress{UserID: uidNormal, GuildID: "guild", Level: 1}}
	n := &fakeNotifier{}

	h := testHandler(store, n, base)
	assert.Nil(t, h.AwardMessageXP(uidNormal, "guild"))
	assert.EqualValues(t, 1, store.rec.XP)

	// 4 minutes later the cooldown still holds
	h.now = func() time.Time { return base.Add(4 * time.Minute) }
	assert.Nil(t, h.AwardMessageXP(uidNormal, "guild"))
	assert.EqualValues(t, 1, store.rec.XP)

	// 6 minutes later it has passed
	h.now = func() time.Time { return base.Add(6 * time.Minute) }
	assert.Nil(t, h.AwardMessageXP(uidNormal, "guild"))
	assert.EqualValues(t, 2, store.rec.XP)

	assert.Empty(t, n.levels)
}

func TestAwardMessageXPLevelUp(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// one XP short of level 2
	store := &fakeStore{rec: &models.UserProgress{UserID: uidNormal, GuildID: "guild", XP: 34, Level: 1}}
	n := &fakeNotifier{}

	h := testHandler(store, n, base)
	assert.Nil(t, h.AwardMessageXP(uidNormal, "guild"))

	assert.EqualValues(t, 35, store.rec.XP)
	assert.Equal(t, []int{2}, store.setLevelCalls)
	assert.Equal(t, []int{2}, n.levels)
	assert.Equal(t, []Source{SourceMessage}, n.sources)
}

func TestSetXP(t *testing.T) {
	store := &fakeStore{rec: &models.UserProgress{UserID: uidNormal, GuildID: "guild"}}
	h := testHandler(store, &fakeNotifier{}, time.Now())

	rec, err := h.SetXP(uidNormal, "guild", 71)
	assert.Nil(t, err)
	assert.EqualValues(t, 71, rec.XP)
	assert.Equal(t, 3, rec.Level)

	// negative totals clamp to zero
	rec, err = h.SetXP(uidNormal, "guild", -100)
	assert.Nil(t, err)
	assert.EqualValues(t, 0, rec.XP)
	assert.Equal(t, 1, rec.Level)
}

func TestAddXPRecomputesLevel(t *testing.T) {
	store := &fakeStore{rec: &models.UserProgress{UserID: uidNormal, GuildID: "guild", XP: 100, Level: 3}}
	h := testHandler(store, &fakeNotifier{}, time.Now())

	// removing XP must drop the cached level too
	rec, err := h.AddXP(uidNormal, "guild", -80)
	assert.Nil(t, err)
	assert.EqualValues(t, 20, rec.XP)
	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, []int{1}, store.setLevelCalls)
}

func TestResetUser(t *testing.T) {
	store := &fakeStore{rec: &models.UserProgress{}}
	h := testHandler(store, &fakeNotifier{}, time.Now())

	assert.Nil(t, h.ResetUser(uidNormal, "guild"))
	assert.True(t, store.deleted)
}
