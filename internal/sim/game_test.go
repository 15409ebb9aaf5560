package sim

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/narrative"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/storage"
	"github.com/zataralive/seraph-ultimo-login/internal/weapon"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const dt = 1.0 / 60

const tinyGraph = `
root: ROOT
nodes:
  - id: ROOT
    title: Início
    kind: decision
    choices:
      - {id: R1, text: Carne, target: CARNE_FINAL_A, affinity: {carne: 10}, locks_path: carne, dialogue: A carne chama.}
      - {id: R2, text: Nada, target: LIMBO}
  - {id: CARNE_FINAL_A, title: Fim A, kind: final, affinity: carne, variant: A, terminal: true}
  - {id: LIMBO, title: Limbo, kind: final, terminal: true}
scenes:
  ROOT: {enemies: [basic_flyer], count: 1}
  CARNE_FINAL_A: {enemies: [basic_flyer], count: 1, boss: true}
  LIMBO: {count: 0}
`

const tinyEndings = `
paths:
  - affinity: carne
    display: CAMINHO DO HORROR CORPORAL
    boss: A Carne
    endings:
      - {title: Assimilado, description: desc A, unlocks: flesh_weaver_staff}
      - {title: Peça Final, description: desc B}
      - {title: Jardim, description: desc C}
`

func tinyBundle(t *testing.T) *content.Bundle {
	t.Helper()
	b, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() failed: %v", err)
	}
	if b.Graph, err = narrative.Parse([]byte(tinyGraph)); err != nil {
		t.Fatalf("narrative.Parse() failed: %v", err)
	}
	if b.Endings, err = narrative.ParseEndings([]byte(tinyEndings)); err != nil {
		t.Fatalf("narrative.ParseEndings() failed: %v", err)
	}
	return b
}

func newGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g
}

func idle(g *Game) {
	g.Step(core.NewInputFrame(), dt)
}

// clearScene kills everything on screen until the run leaves combat.
func clearScene(t *testing.T, g *Game) {
	t.Helper()
	idle(g)
	for i := 0; i < 20 && g.Phase() == PhaseCombat; i++ {
		for _, e := range g.World().Enemies {
			e.Kill()
		}
		idle(g)
	}
	if g.Phase() == PhaseCombat {
		t.Fatalf("Expected the scene to clear, still in combat at %s", g.Machine().NodeID())
	}
}

type memPersistence struct {
	sets     map[string][]string
	scores   []storage.ScoreEntry
	fail     error
	failSave error
}

func newMem() *memPersistence {
	return &memPersistence{sets: map[string][]string{}}
}

func (m *memPersistence) Strings(key string) ([]string, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	return append([]string(nil), m.sets[key]...), nil
}

func (m *memPersistence) SaveStrings(key string, values []string) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.sets[key] = values
	return nil
}

func (m *memPersistence) RecordScore(e storage.ScoreEntry) error {
	if m.fail != nil {
		return m.fail
	}
	m.scores = append(m.scores, e)
	return nil
}

func TestNewStartsAtRoot(t *testing.T) {
	g := newGame(t, Options{Seed: 1})

	if g.Phase() != PhaseCombat {
		t.Errorf("Expected combat phase, got %s", g.Phase())
	}
	if g.Machine().NodeID() != narrative.RootID {
		t.Errorf("Expected root node, got %s", g.Machine().NodeID())
	}
	if g.World().LiveEnemies() == 0 {
		t.Error("Expected the root scene to spawn enemies")
	}
	if g.Staff().ID() != weapon.DefaultID {
		t.Errorf("Expected default staff, got %s", g.Staff().ID())
	}
	if g.RunID() == "" {
		t.Error("Expected a run id")
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 240)
	for i := range inputs {
		in := core.NewInputFrame()
		switch {
		case i%50 < 20:
			in.Set(core.ActionRight)
		case i%50 < 35:
			in.Set(core.ActionLeft)
		}
		if i%7 == 0 {
			in.Set(core.ActionJump)
		}
		in.Set(core.ActionShoot)
		inputs[i] = in
	}

	run := func() uint64 {
		g := newGame(t, Options{Seed: 42})
		for _, in := range inputs {
			g.Step(in, dt)
		}
		return g.Snapshot().Hash()
	}

	h1, h2 := run(), run()
	if h1 != h2 {
		t.Errorf("Expected equal hashes for equal seeds, got %d and %d", h1, h2)
	}
}

func TestSnapshotHashIgnoresRunID(t *testing.T) {
	g := newGame(t, Options{Seed: 3})
	s := g.Snapshot()
	h := s.Hash()
	s.RunID = "other"
	if s.Hash() != h {
		t.Error("Expected the run id to be left out of the hash")
	}
	s.Score++
	if s.Hash() == h {
		t.Error("Expected the score to change the hash")
	}
}

func TestFullRunToEnding(t *testing.T) {
	g := newGame(t, Options{Content: tinyBundle(t), Seed: 7})

	clearScene(t, g)
	if g.Phase() != PhaseDecision {
		t.Fatalf("Expected decision after clearing root, got %s", g.Phase())
	}
	if n := len(g.Options()); n != 2 {
		t.Fatalf("Expected 2 options, got %d", n)
	}

	// Decisions do not tick.
	tick := g.Tick()
	idle(g)
	if g.Tick() != tick {
		t.Errorf("Expected no ticks during a decision")
	}

	in := core.NewInputFrame()
	in.Set(core.ActionChoice1)
	g.Step(in, dt)
	if g.Machine().NodeID() != "CARNE_FINAL_A" || g.Phase() != PhaseCombat {
		t.Fatalf("Expected combat at CARNE_FINAL_A, got %s %s", g.Machine().NodeID(), g.Phase())
	}
	if g.Machine().Locked() != affinity.Carne {
		t.Errorf("Expected carne locked, got %q", g.Machine().Locked())
	}
	if g.World().LiveEnemies() != 1 || !g.World().Enemies[0].Boss {
		t.Errorf("Expected the final boss alone in the arena")
	}
	if _, ok := g.Pending(); ok {
		t.Error("Expected no submission mid-run")
	}

	clearScene(t, g)
	if g.Phase() != PhaseEnding {
		t.Fatalf("Expected ending phase, got %s", g.Phase())
	}
	end, ok := g.Ending()
	if !ok || end.Title != "Assimilado" {
		t.Fatalf("Expected Assimilado, got %+v", end)
	}

	sub, ok := g.Pending()
	if !ok || sub.Ending == nil || sub.Ending.Title != "Assimilado" || sub.Theme != affinity.Carne {
		t.Fatalf("Expected a pending ending submission, got %+v", sub)
	}

	p := newMem()
	if err := g.Finalize(p, "  "); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if len(p.scores) != 1 || p.scores[0].Name != AnonymousName || p.scores[0].Ending != "Assimilado" {
		t.Errorf("Expected an anonymous score with the ending, got %+v", p.scores)
	}
	if got := p.sets[KeyAchievedEndings]; len(got) != 1 || got[0] != "Assimilado" {
		t.Errorf("Expected the ending recorded, got %v", got)
	}
	if got := p.sets[KeyUnlockedStaves]; len(got) != 1 || got[0] != "flesh_weaver_staff" {
		t.Errorf("Expected flesh_weaver_staff unlocked, got %v", got)
	}

	if err := g.Finalize(p, "again"); !errors.Is(err, ErrNothingPending) {
		t.Errorf("Expected ErrNothingPending, got %v", err)
	}
}

func TestFinalizeRetryRecordsOnce(t *testing.T) {
	g := newGame(t, Options{Content: tinyBundle(t), Seed: 2})
	clearScene(t, g)
	if err := g.Choose(0); err != nil {
		t.Fatalf("Choose() failed: %v", err)
	}
	clearScene(t, g)

	p := newMem()
	p.failSave = errors.New("disk full")
	if err := g.Finalize(p, "Lia"); err == nil {
		t.Fatal("Expected Finalize to fail while saves fail")
	}
	if len(p.scores) != 1 {
		t.Fatalf("Expected the score recorded before the failure, got %+v", p.scores)
	}
	if _, ok := g.Pending(); !ok {
		t.Fatal("Expected the submission to stay pending after a failed save")
	}

	p.failSave = nil
	if err := g.Finalize(p, "Lia"); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if len(p.scores) != 1 {
		t.Errorf("Expected the retry not to record the score again, got %+v", p.scores)
	}
	if got := p.sets[KeyUnlockedStaves]; len(got) != 1 || got[0] != "flesh_weaver_staff" {
		t.Errorf("Expected flesh_weaver_staff unlocked on retry, got %v", got)
	}
	if _, ok := g.Pending(); ok {
		t.Error("Expected nothing pending after a successful retry")
	}
}

func TestSceneNotClearedOnLoadTick(t *testing.T) {
	g := newGame(t, Options{Content: tinyBundle(t), Seed: 1})
	if g.Machine().State() != narrative.Combat || g.World().LiveEnemies() == 0 {
		t.Fatalf("Expected a loaded combat scene, got %s with %d enemies",
			g.Machine().State(), g.World().LiveEnemies())
	}

	for _, e := range g.World().Enemies {
		e.Kill()
	}
	idle(g)
	if g.Machine().State() != narrative.Combat {
		t.Errorf("Expected combat after the load tick, got %s", g.Machine().State())
	}

	idle(g)
	if g.Machine().State() != narrative.Decision {
		t.Errorf("Expected decision after the next tick, got %s", g.Machine().State())
	}
}

func TestIncompleteEndingIsNotAchieved(t *testing.T) {
	g := newGame(t, Options{Content: tinyBundle(t), Seed: 7})

	clearScene(t, g)
	if err := g.Choose(1); err != nil {
		t.Fatalf("Choose() failed: %v", err)
	}
	if g.Phase() != PhaseEnding {
		t.Fatalf("Expected the empty terminal scene to end the run, got %s", g.Phase())
	}
	sub, _ := g.Pending()
	if sub.Ending == nil || !sub.Ending.Incomplete {
		t.Fatalf("Expected an incomplete ending, got %+v", sub.Ending)
	}

	p := newMem()
	if err := g.Finalize(p, "Rui"); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if len(p.scores) != 1 || p.scores[0].Name != "Rui" {
		t.Errorf("Expected the score recorded, got %+v", p.scores)
	}
	if len(p.sets[KeyAchievedEndings]) != 0 || len(p.sets[KeyUnlockedStaves]) != 0 {
		t.Errorf("Expected nothing achieved, got %v", p.sets)
	}
}

func TestChooseOutsideDecision(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	if err := g.Choose(0); !errors.Is(err, ErrNotDeciding) {
		t.Errorf("Expected ErrNotDeciding, got %v", err)
	}
}

func TestDeathEndsRun(t *testing.T) {
	g := newGame(t, Options{Seed: 5})
	pl := g.World().Player
	pl.HP = 1
	pl.Sustain.Degen = true
	pl.Sustain.DegenRate = 1000
	pl.Sustain.LastDamageDealt = -degenGrace * 2

	idle(g)
	if g.Phase() != PhaseDead {
		t.Fatalf("Expected dead phase, got %s", g.Phase())
	}
	if !g.State().GameOver {
		t.Error("Expected game over")
	}
	sub, ok := g.Pending()
	if !ok || sub.Ending != nil || sub.Node != narrative.RootID {
		t.Errorf("Expected a death submission at the root, got %+v", sub)
	}

	tick := g.Tick()
	idle(g)
	if g.Tick() != tick {
		t.Error("Expected no ticks after death")
	}

	p := newMem()
	p.fail = errors.New("disk full")
	if err := g.Finalize(p, "x"); err == nil {
		t.Error("Expected the persistence error")
	}
	if _, ok := g.Pending(); !ok {
		t.Error("Expected the submission kept after a failed finalize")
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	old := g.RunID()
	g.Step(in, dt)
	if g.Phase() != PhaseCombat || g.RunID() == old {
		t.Errorf("Expected a fresh run after restart, got %s %s", g.Phase(), g.RunID())
	}
	if _, ok := g.Pending(); ok {
		t.Error("Expected restart to drop the submission")
	}
}

func TestPauseStopsTicks(t *testing.T) {
	g := newGame(t, Options{Seed: 1})

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause, dt)
	if !g.State().Paused {
		t.Fatal("Expected paused")
	}
	now := g.World().Now
	for i := 0; i < 10; i++ {
		idle(g)
	}
	if g.World().Now != now || g.Tick() != 0 {
		t.Errorf("Expected time frozen while paused")
	}

	// The resuming frame ticks.
	g.Step(pause, dt)
	if g.State().Paused {
		t.Fatal("Expected resumed")
	}
	if g.Tick() != 1 {
		t.Errorf("Expected 1 tick after resuming, got %d", g.Tick())
	}
}

func TestDeltaIsClamped(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	before := g.World().Now
	g.Step(core.NewInputFrame(), 1.0)
	if got := g.World().Now - before; got < 50-1e-9 || got > 50+1e-9 {
		t.Errorf("Expected a 50ms step, got %v", got)
	}
}

func TestShootSpawnsProjectiles(t *testing.T) {
	g := newGame(t, Options{Seed: 9})
	g.World().Now = 10000

	in := core.NewInputFrame()
	in.Set(core.ActionShoot)
	g.Step(in, dt)

	n := 0
	for _, p := range g.World().Projectiles {
		if p.Owner == world.OwnerPlayer {
			n++
		}
	}
	if n == 0 {
		t.Error("Expected the staff to fire")
	}
	if !g.Sounds().Pending(sound.PlayerShoot) {
		t.Error("Expected a shoot intent")
	}
}

func TestThunderTelegraphReleasesBolt(t *testing.T) {
	g := newGame(t, Options{Seed: 11})
	pl := g.World().Player
	pl.Thunder.Cooldown = 1000
	pl.Thunder.PerActivation = 2

	var telegraphed, bolted bool
	for i := 0; i < 120 && !bolted && g.Phase() == PhaseCombat; i++ {
		idle(g)
		for _, fx := range g.World().Effects {
			if fx.Kind == world.EffectThunderTelegraph {
				telegraphed = true
			}
		}
		for _, p := range g.World().Projectiles {
			if p.Kind == world.KindThunderbolt {
				bolted = true
			}
		}
	}
	if !telegraphed {
		t.Fatal("Expected a thunder telegraph")
	}
	if !bolted {
		t.Error("Expected the telegraph to release a bolt")
	}
}

func TestRageScalesDamage(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	pl := g.World().Player
	pl.Vengeance.Rage = true

	tests := []struct {
		hp   float64
		want float64
	}{
		{pl.MaxHP, pl.BaseDamage},
		{pl.MaxHP * 0.5, pl.BaseDamage},
		{pl.MaxHP * 0.25, pl.BaseDamage * 1.25},
	}
	for _, tt := range tests {
		pl.HP = tt.hp
		g.rage()
		if diff := pl.Damage - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("hp %v: expected damage %v, got %v", tt.hp, tt.want, pl.Damage)
		}
	}
}

func TestMinions(t *testing.T) {
	g := newGame(t, Options{Content: tinyBundle(t), Seed: 1})
	st := g.World()
	fl := &st.Player.Flesh
	fl.Minions = true
	fl.MinionInterval = 100
	fl.MinionCap = 2

	for i := 0; i < 5; i++ {
		st.Now += 200
		g.minions(dt)
	}
	if len(st.Player.Minions) != 2 {
		t.Fatalf("Expected minions capped at 2, got %d", len(st.Player.Minions))
	}
	for _, m := range st.Player.Minions {
		if m.Damage != minionDamage || m.Cooldown != minionCooldown {
			t.Errorf("Expected damage %v and cooldown %v, got %+v", minionDamage, minionCooldown, m)
		}
	}

	minionShots := func() int {
		n := 0
		for _, p := range st.Projectiles {
			if p.Kind == world.KindMinionShot && p.Owner == world.OwnerMinion && p.Damage == minionDamage {
				n++
			}
		}
		return n
	}
	st.Commit()
	before := minionShots()

	e := st.Enemies[0]
	e.Box = core.CenteredAt(st.Player.Center(), e.Box.W, e.Box.H)
	st.Now += minionCooldown + 1
	g.minions(dt)
	st.Commit()

	if shots := minionShots() - before; shots != 2 {
		t.Errorf("Expected one shot per minion, got %d", shots)
	}
}

func TestSustain(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	pl := g.World().Player
	st := g.World()

	pl.HP = 50
	pl.Sustain.Regen = 5
	g.sustain(1)
	if pl.HP != 55 {
		t.Errorf("Expected regen to 55, got %v", pl.HP)
	}

	pl.Sustain.Regen = 0
	pl.Sustain.Degen = true
	pl.Sustain.DegenRate = 2
	pl.Sustain.LastDamageDealt = st.Now
	g.sustain(1)
	if pl.HP != 55 {
		t.Errorf("Expected no degen inside the grace period, got %v", pl.HP)
	}
	st.Now += degenGrace + 1
	g.sustain(1)
	if pl.HP != 53 {
		t.Errorf("Expected degen to 53, got %v", pl.HP)
	}
}

func TestBarrierRecharges(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	pl := g.World().Player
	g.World().Now = 5000
	pl.Barrier = world.Barrier{Enabled: true, Cooldown: 1000, LastAt: 4500}

	g.barrier()
	if pl.Barrier.Ready {
		t.Fatal("Expected the barrier still cooling down")
	}
	g.World().Now = 5600
	g.barrier()
	if !pl.Barrier.Ready {
		t.Error("Expected the barrier ready")
	}
}

func TestPickups(t *testing.T) {
	g := newGame(t, Options{Seed: 1})
	pl := g.World().Player
	pl.HP = 10

	g.pickups([]*world.Collectible{
		{Kind: world.CollectHeal, Value: 10, Potent: true},
		{Kind: world.CollectSoul, Value: 25},
	})
	if pl.HP != 25 {
		t.Errorf("Expected potent heal to 25, got %v", pl.HP)
	}
	if g.Score() != 25 {
		t.Errorf("Expected 25 points from the soul, got %d", g.Score())
	}
}

func TestLockedStaffFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		staff    string
		unlocked []string
		want     string
	}{
		{"locked", "flesh_weaver_staff", []string{}, weapon.DefaultID},
		{"unknown", "banana_staff", nil, weapon.DefaultID},
		{"unlocked", "flesh_weaver_staff", []string{"flesh_weaver_staff"}, "flesh_weaver_staff"},
		{"all allowed", "flesh_weaver_staff", nil, "flesh_weaver_staff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, Options{Seed: 1, Staff: tt.staff, Unlocked: tt.unlocked})
			if g.Staff().ID() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, g.Staff().ID())
			}
		})
	}
}

func TestLoadUnlocked(t *testing.T) {
	p := newMem()
	got, err := LoadUnlocked(p)
	if err != nil {
		t.Fatalf("LoadUnlocked() failed: %v", err)
	}
	if len(got) != 1 || got[0] != weapon.DefaultID {
		t.Errorf("Expected only the default staff, got %v", got)
	}

	p.sets[KeyUnlockedStaves] = []string{"flesh_weaver_staff"}
	got, _ = LoadUnlocked(p)
	if len(got) != 2 || got[0] != weapon.DefaultID {
		t.Errorf("Expected default plus unlock, got %v", got)
	}
}

func TestFinalizeWithStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "seraph.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	g := newGame(t, Options{Content: tinyBundle(t), Seed: 2})
	clearScene(t, g)
	if err := g.Choose(0); err != nil {
		t.Fatalf("Choose() failed: %v", err)
	}
	clearScene(t, g)

	if err := g.Finalize(store, "Lia"); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	top, err := store.TopScores(0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Lia" || top[0].Ending != "Assimilado" {
		t.Errorf("Expected Lia's run, got %+v", top)
	}
	unlocked, err := LoadUnlocked(store)
	if err != nil {
		t.Fatalf("LoadUnlocked() failed: %v", err)
	}
	if len(unlocked) != 2 {
		t.Errorf("Expected two staves unlocked, got %v", unlocked)
	}
}
