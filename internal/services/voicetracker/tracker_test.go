package voicetracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/services/presence"
)

const (
	uid1 = "352002717285089280"
	uid2 = "531861558834495498"
	gid  = "825580521616172114"
)

type voiceAward struct {
	userID          string
	amount          int64
	minutes         int
	creditedThrough time.Time
}

type fakeStore struct {
	database.Database

	tracked []*models.UserProgress

	awards     []voiceAward
	cleared    []string
	registered []string
	restamped  bool
	clearedAll bool
	levels     map[string]int
}

func (f *fakeStore) ListTrackedInVoice(guildID string) ([]*models.UserProgress, error) {
	return f.tracked, nil
}

func (f *fakeStore) ClearVoiceJoinTime(userID, guildID string) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

func (f *fakeStore) AddVoiceXP(userID, guildID string, amount int64, minutes int, creditedThrough time.Time) (*models.UserProgress, error) {
	f.awards = append(f.awards, voiceAward{userID, amount, minutes, creditedThrough})

	for _, rec := range f.tracked {
		if rec.UserID == userID {
			rec.XP += amount
			rec.VoiceMinutes += int64(minutes)
			rec.LastVoiceXPTime = creditedThrough
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SetLevel(userID, guildID string, level int) error {
	if f.levels == nil {
		f.levels = map[string]int{}
	}
	f.levels[userID] = level
	return nil
}

func (f *fakeStore) RegisterVoiceJoin(userID, guildID string, ts time.Time) error {
	f.registered = append(f.registered, userID)
	return nil
}

func (f *fakeStore) RestampAllVoiceJoinTimes(guildID string, ts time.Time) error {
	f.restamped = true
	return nil
}

func (f *fakeStore) ClearAllVoiceJoinTimes(guildID string) error {
	f.clearedAll = true
	return nil
}

type fakePresence struct {
	states    map[string]*presence.VoiceState
	occupants map[string][]presence.Occupant
}

func (f *fakePresence) GuildIDs() []string {
	return []string{gid}
}

func (f *fakePresence) UserVoiceState(guildID, userID string) (*presence.VoiceState, error) {
	return f.states[userID], nil
}

func (f *fakePresence) ChannelOccupants(guildID string) (map[string][]presence.Occupant, error) {
	return f.occupants, nil
}

type nopNotifier struct {
	levels []int
}

func (n *nopNotifier) NotifyLevelUp(guildID, userID string, newLevel int, rec *models.UserProgress, source leveling.Source) {
	n.levels = append(n.levels, newLevel)
}

func testTracker(store *fakeStore, p *fakePresence, now time.Time) *VoiceTracker {
	cfg := models.DefaultConfig.Leveling
	return &VoiceTracker{
		db:       store,
		presence: p,
		curve:    leveling.NewCurve(cfg),
		notifier: &nopNotifier{},
		cfg:      cfg,
		now:      func() time.Time { return now },
	}
}

func connected(humans int) *presence.VoiceState {
	return &presence.VoiceState{ChannelID: "chan", Humans: humans}
}

func TestTickCreditsWholeMinutes(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
	}}
	p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(2)}}

	// 3.5 minutes in only three whole minutes are credited
	vt := testTracker(store, p, base.Add(3*time.Minute+30*time.Second))
	vt.Tick()

	assert.Len(t, store.awards, 1)
	assert.EqualValues(t, 15, store.awards[0].amount)
	assert.Equal(t, 3, store.awards[0].minutes)
	assert.Equal(t, base.Add(3*time.Minute), store.awards[0].creditedThrough)

	// the half minute remainder rolls into the next pass
	vt.now = func() time.Time { return base.Add(4*time.Minute + 40*time.Second) }
	vt.Tick()

	assert.Len(t, store.awards, 2)
	assert.EqualValues(t, 5, store.awards[1].amount)
	assert.Equal(t, 1, store.awards[1].minutes)
	assert.Equal(t, base.Add(4*time.Minute), store.awards[1].creditedThrough)
}

func TestTickNoFullMinute(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
	}}
	p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(2)}}

	vt := testTracker(store, p, base.Add(45*time.Second))
	vt.Tick()

	assert.Empty(t, store.awards)
	assert.Empty(t, store.cleared)
}

func TestTickIneligibleStaysTracked(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base.Add(5 * time.Minute)

	{
		// alone in the channel
		store := &fakeStore{tracked: []*models.UserProgress{
			{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
		}}
		p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(1)}}

		testTracker(store, p, now).Tick()
		assert.Empty(t, store.awards)
		assert.Empty(t, store.cleared)
	}

	{
		// muted
		store := &fakeStore{tracked: []*models.UserProgress{
			{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
		}}
		vs := connected(3)
		vs.Muted = true
		p := &fakePresence{states: map[string]*presence.VoiceState{uid1: vs}}

		testTracker(store, p, now).Tick()
		assert.Empty(t, store.awards)
		assert.Empty(t, store.cleared)
	}

	{
		// deafened
		store := &fakeStore{tracked: []*models.UserProgress{
			{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
		}}
		vs := connected(3)
		vs.Deafened = true
		p := &fakePresence{states: map[string]*presence.VoiceState{uid1: vs}}

		testTracker(store, p, now).Tick()
		assert.Empty(t, store.awards)
		assert.Empty(t, store.cleared)
	}
}

func TestTickClearsStaleMarker(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
	}}
	// user is not connected at all anymore
	p := &fakePresence{states: map[string]*presence.VoiceState{}}

	testTracker(store, p, base.Add(10*time.Minute)).Tick()

	assert.Empty(t, store.awards)
	assert.Equal(t, []string{uid1}, store.cleared)
}

func TestTickCreditOriginAdvances(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// previous pass already credited through base+3m
	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base, LastVoiceXPTime: base.Add(3 * time.Minute)},
	}}
	p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(2)}}

	// under a minute since the credit origin, nothing to award
	testTracker(store, p, base.Add(3*time.Minute+50*time.Second)).Tick()
	assert.Empty(t, store.awards)

	// a minute past it, exactly one minute is credited
	testTracker(store, p, base.Add(4*time.Minute+10*time.Second)).Tick()
	assert.Len(t, store.awards, 1)
	assert.Equal(t, 1, store.awards[0].minutes)
	assert.Equal(t, base.Add(4*time.Minute), store.awards[0].creditedThrough)
}

func TestTickOverlapGuard(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, Level: 1, VoiceJoinTime: base},
	}}
	p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(2)}}

	vt := testTracker(store, p, base.Add(5*time.Minute))
	vt.running.Store(true)
	vt.Tick()

	assert.Empty(t, store.awards)
}

func TestTickLevelUpNotifies(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 30 XP, 5 XP per voice minute, one credited minute crosses the
	// level 2 threshold of 35
	store := &fakeStore{tracked: []*models.UserProgress{
		{UserID: uid1, GuildID: gid, XP: 30, Level: 1, VoiceJoinTime: base},
	}}
	p := &fakePresence{states: map[string]*presence.VoiceState{uid1: connected(2)}}

	vt := testTracker(store, p, base.Add(70*time.Second))
	n := vt.notifier.(*nopNotifier)
	vt.Tick()

	assert.Len(t, store.awards, 1)
	assert.Equal(t, 2, store.levels[uid1])
	assert.Equal(t, []int{2}, n.levels)
}

func TestReconcileGuild(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{}
	p := &fakePresence{occupants: map[string][]presence.Occupant{
		// populated channel, one muted member
		"chan1": {
			{UserID: uid1},
			{UserID: uid2, Muted: true},
		},
		// lone member, nobody qualifies
		"chan2": {
			{UserID: "999"},
		},
	}}

	testTracker(store, p, base).ReconcileGuild(gid)

	assert.Equal(t, []string{uid1}, store.registered)
}

func TestEmergencyReset(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	{
		store := &fakeStore{}
		vt := testTracker(store, &fakePresence{}, base)
		assert.Nil(t, vt.EmergencyReset(gid, false))
		assert.True(t, store.clearedAll)
		assert.False(t, store.restamped)
	}

	{
		store := &fakeStore{}
		vt := testTracker(store, &fakePresence{}, base)
		assert.Nil(t, vt.EmergencyReset(gid, true))
		assert.True(t, store.restamped)
		assert.False(t, store.clearedAll)
	}
}
