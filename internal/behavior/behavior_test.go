package behavior

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sound"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const testRoster = `
archetypes:
  - id: basic_flyer
    hp: 30
    speed: 1.6
    width: 40
    height: 40
    damage: 10
    cooldown: 2400
    move: {kind: patrol, bob: true}
    attack: {kind: shot, shot: enemy_shot}
  - id: dasher
    hp: 45
    width: 35
    height: 35
    cooldown: 3300
    contact_damage: 20
    move: {kind: dash, speed: 9, duration: 260, cooldown: 2600, prepare: 600}
  - id: aegis
    hp: 55
    speed: 2.2
    width: 35
    height: 35
    cooldown: 99999
    move: {kind: flee, radius: 300}
    support: {radius: 220}
  - id: spawnling
    hp: 40
    speed: 2.9
    width: 25
    height: 25
    cooldown: 99999
    lifespan: 16000
    move: {kind: pursue, erratic: true}
  - id: boss
    hp: 500
    speed: 1.4
    width: 80
    height: 80
    damage: 38
    cooldown: 1400
    move: {kind: patrol}
    attack: {kind: shot, shot: wave_shot, count: 3, arc: 0.5}
    boss:
      kit:
        - {kind: summon, cooldown: 1000, summon: spawnling, count: 20}
      enrage: {below: 0.5, speed: 1.35, damage: 1.25}
`

func testBestiary(t *testing.T) *Bestiary {
	t.Helper()
	b, err := ParseBestiary([]byte(testRoster))
	if err != nil {
		t.Fatalf("ParseBestiary() failed: %v", err)
	}
	return b
}

func testWorld() *world.State {
	st := world.NewState(1000, 600)
	st.ResetScene(world.DefaultPlatforms(1000, 600, 30))
	stats := world.PlayerStats{Width: 40, Height: 60, HP: 120, Speed: 5, JumpForce: 13, CritMult: 1.5, ProjectileScale: 1}
	st.Player = world.NewPlayer(stats, world.Weapon{ID: "wizard_staff", BaseInterval: 600, BaseDamage: 12}, 1000, st.GroundY())
	st.Now = 10000
	return st
}

func testEngine(t *testing.T) (*Engine, *sound.Board) {
	sounds := &sound.Board{}
	return NewEngine(testBestiary(t), core.NewSimpleRNG(3), sounds, nil), sounds
}

// place spawns one enemy at a fixed spot and commits it.
func place(t *testing.T, en *Engine, st *world.State, id string, x, y float64) *world.Enemy {
	t.Helper()
	e := en.Spawn(st, id, false)
	e.Box.X, e.Box.Y = x, y
	st.Commit()
	return e
}

func TestParseBestiaryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no fallback", "archetypes:\n  - {id: x, hp: 1, width: 1, height: 1}", "fallback"},
		{"bad movement", "archetypes:\n  - {id: basic_flyer, hp: 1, width: 1, height: 1, move: {kind: swim}}", "movement"},
		{"bad shot", "archetypes:\n  - {id: basic_flyer, hp: 1, width: 1, height: 1, attack: {kind: shot, shot: laser}}", "shot"},
		{"bad summon", "archetypes:\n  - {id: basic_flyer, hp: 1, width: 1, height: 1, boss: {kit: [{kind: summon, cooldown: 1, summon: ghost}]}}", "ghost"},
		{"no size", "archetypes:\n  - {id: basic_flyer, hp: 1}", "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBestiary([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestVariantsDecode(t *testing.T) {
	b := testBestiary(t)
	d, _ := b.Get("dasher")
	if _, ok := d.Move.Movement.(*Dash); !ok {
		t.Errorf("Expected dash movement, got %T", d.Move.Movement)
	}
	if _, ok := d.Attack.Attack.(NoAttack); !ok {
		t.Errorf("Expected missing attack to decode as none, got %T", d.Attack.Attack)
	}
	boss, _ := b.Get("boss")
	shot, ok := boss.Attack.Attack.(*Shot)
	if !ok || shot.Kind() != world.KindWaveShot || shot.Count != 3 {
		t.Errorf("Expected 3 wave shots, got %+v", boss.Attack.Attack)
	}
}

func TestUnknownArchetypeFallsBack(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	e := en.Spawn(st, "no_such_enemy", false)
	if e.Archetype != FallbackID {
		t.Errorf("Expected fallback archetype, got %s", e.Archetype)
	}
	if st.LiveEnemies() != 1 {
		t.Errorf("Expected the fallback enemy to spawn, got %d", st.LiveEnemies())
	}
}

func TestScalingHasDiminishingReturns(t *testing.T) {
	s := DefaultScaling()
	if s.Factor(0) != 0 {
		t.Errorf("Factor(0) = %v, expected 0", s.Factor(0))
	}
	prev, prevGain := 0.0, math.Inf(1)
	for n := 1; n <= 20; n++ {
		f := s.Factor(n)
		gain := f - prev
		if gain <= 0 || gain > prevGain+1e-12 {
			t.Fatalf("Factor(%d) gain %v should be positive and shrinking (prev %v)", n, gain, prevGain)
		}
		prev, prevGain = f, gain
	}
	if f := s.Factor(10); math.Abs(f-1/1.5) > 1e-9 {
		t.Errorf("Factor(10) = %v, expected %v", f, 1/1.5)
	}

	fixed := Scaling{Step: 0.1, Damping: 0.5, Fixed: true}
	if fixed.Factor(50) != 0 {
		t.Error("Fixed scaling should never grow")
	}
}

func TestScaleStats(t *testing.T) {
	b := testBestiary(t)
	a, _ := b.Get("basic_flyer")
	s := DefaultScaling()

	base := s.Scale(a, 0, false)
	if base.HP != 30 || base.Cooldown != 2400 {
		t.Errorf("Expected unscaled stats at zero clears, got %+v", base)
	}
	normal := s.Scale(a, 5, false)
	boss := s.Scale(a, 5, true)
	if normal.HP <= base.HP || boss.HP <= normal.HP {
		t.Errorf("Expected hp to grow, faster for bosses: %v %v %v", base.HP, normal.HP, boss.HP)
	}
	if normal.Cooldown != 2300 {
		t.Errorf("Cooldown = %v, expected 2300", normal.Cooldown)
	}
	if late := s.Scale(a, 500, false); late.Cooldown != 300 {
		t.Errorf("Cooldown should floor at 300, got %v", late.Cooldown)
	}
}

func TestFearedEnemyFleesAndHoldsFire(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	e := place(t, en, st, "basic_flyer", 600, 300)
	e.LastAttack = 0
	e.Status.FearedUntil = st.Now + 2000

	before := core.Dist(e.Box.Center(), st.Player.Center())
	en.Update(st, 1.0/60)
	st.Commit()

	if after := core.Dist(e.Box.Center(), st.Player.Center()); after <= before {
		t.Errorf("Feared enemy should move away: %v -> %v", before, after)
	}
	if len(st.Projectiles) != 0 {
		t.Errorf("Feared enemy should not fire, got %d shots", len(st.Projectiles))
	}
}

func TestShotFiresAfterCooldown(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	e := place(t, en, st, "basic_flyer", 100, 100)
	e.LastAttack = st.Now - 100

	en.Update(st, 1.0/60)
	st.Commit()
	if len(st.Projectiles) != 0 {
		t.Fatalf("Expected no shot inside the cooldown, got %d", len(st.Projectiles))
	}

	e.LastAttack = st.Now - 5000
	en.Update(st, 1.0/60)
	if len(st.Projectiles) != 0 {
		t.Error("Shots should stay buffered until commit")
	}
	st.Commit()
	if len(st.Projectiles) != 1 {
		t.Fatalf("Expected one shot, got %d", len(st.Projectiles))
	}
	p := st.Projectiles[0]
	if p.Owner != world.OwnerEnemy || p.Damage != e.Damage {
		t.Errorf("Unexpected shot %+v", p)
	}
	if e.LastAttack != st.Now {
		t.Errorf("LastAttack = %v, expected %v", e.LastAttack, st.Now)
	}
}

func TestDashCycle(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	e := place(t, en, st, "dasher", 100, 100)
	e.Brain.LastDash = st.Now - 3000

	en.Update(st, 1.0/60)
	if e.Brain.Dash != world.DashPreparing {
		t.Fatalf("Expected telegraph, got phase %v", e.Brain.Dash)
	}
	st.Commit()
	if len(st.Effects) != 1 || st.Effects[0].Kind != world.EffectDashTelegraph {
		t.Errorf("Expected dash telegraph effect, got %+v", st.Effects)
	}

	st.Now += 600
	en.Update(st, 1.0/60)
	if e.Brain.Dash != world.DashCharging {
		t.Fatalf("Expected charge after the telegraph, got phase %v", e.Brain.Dash)
	}
	if e.Brain.DashVelocity.X <= 0 {
		t.Errorf("Dash should head toward the player, velocity %+v", e.Brain.DashVelocity)
	}

	st.Now += 260
	en.Update(st, 1.0/60)
	if e.Brain.Dash != world.DashIdle || e.Brain.LastDash != st.Now {
		t.Errorf("Expected dash to end, got phase %v", e.Brain.Dash)
	}
}

func TestSupportBuffsNearbyAllies(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	near := place(t, en, st, "basic_flyer", 100, 100)
	far := place(t, en, st, "basic_flyer", 900, 100)
	orb := place(t, en, st, "aegis", 150, 120)

	en.Update(st, 1.0/60)
	if !near.Status.Buffed {
		t.Error("Enemy near the aegis orb should be buffed")
	}
	if far.Status.Buffed {
		t.Error("Distant enemy should not be buffed")
	}
	if orb.Status.Buffed {
		t.Error("Support unit does not buff itself")
	}
}

func TestBossEnragesOnceAndSummonsUnderCap(t *testing.T) {
	en, sounds := testEngine(t)
	st := testWorld()
	b := place(t, en, st, "boss", 460, 80)
	if !b.Boss || len(b.Brain.BossTimers) != 1 {
		t.Fatalf("Expected boss with one ability timer, got %+v", b)
	}

	b.HP = b.MaxHP * 0.4
	speed, dmg := b.Speed, b.Damage
	st.Now += 1000
	en.Update(st, 1.0/60)
	st.Commit()

	if !b.Brain.Enraged || math.Abs(b.Speed-speed*1.35) > 1e-9 || math.Abs(b.Damage-dmg*1.25) > 1e-9 {
		t.Errorf("Expected enrage multipliers, got speed %v damage %v", b.Speed, b.Damage)
	}
	if !sounds.Pending(sound.BossRoar) {
		t.Error("Enrage should roar")
	}
	if st.LiveEnemies() != maxEnemies {
		t.Errorf("Summons should stop at the cap, live %d", st.LiveEnemies())
	}

	en.Update(st, 1.0/60)
	if b.Speed > speed*1.35+1e-9 {
		t.Error("Enrage must apply once")
	}
}

func TestLifespanRemovesSpawnling(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	e := place(t, en, st, "spawnling", 100, 100)
	st.Now += 16000
	en.Update(st, 1.0/60)
	if !e.Removed() {
		t.Error("Spawnling should expire after its lifespan")
	}
}

func TestConfusionAura(t *testing.T) {
	en, _ := testEngine(t)
	st := testWorld()
	st.Player.Absurd.ConfuseChance = 1000
	pc := st.Player.Center()
	e := place(t, en, st, "basic_flyer", pc.X-20, pc.Y-20)

	en.Update(st, 1.0/60)
	if !e.Confused(st.Now) {
		t.Error("Enemy next to the player should be confused")
	}
	if e.LastAttack != st.Now+1500 {
		t.Errorf("Confusion should delay the next attack, LastAttack %v", e.LastAttack)
	}
}

func TestSpread(t *testing.T) {
	if got := spread(1, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("spread(1) = %v", got)
	}
	got := spread(3, 0.5)
	if math.Abs(got[0]+0.25) > 1e-9 || got[1] != 0 || math.Abs(got[2]-0.25) > 1e-9 {
		t.Errorf("spread(3, 0.5) = %v", got)
	}
}

func TestPredictiveAim(t *testing.T) {
	tests := []struct {
		name    string
		predict float64
		velX    float64
	}{
		{"direct when still", 0.75, 0},
		{"direct without prediction", 0, 4},
		{"leads a moving player", 0.75, 4},
		{"leads the other way", 0.75, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fmt.Sprintf(`
archetypes:
  - id: basic_flyer
    hp: 30
    width: 40
    height: 40
    damage: 10
    cooldown: 2400
    move: {kind: patrol}
    attack: {kind: shot, shot: sharp_shot, predict: %v}
`, tt.predict)
			b, err := ParseBestiary([]byte(doc))
			if err != nil {
				t.Fatalf("ParseBestiary() failed: %v", err)
			}
			en := NewEngine(b, core.NewSimpleRNG(3), &sound.Board{}, nil)
			st := testWorld()
			st.Player.VelX = tt.velX
			e := place(t, en, st, "basic_flyer", 200, 100)

			a, _ := b.Get("basic_flyer")
			shot := a.Attack.Attack.(*Shot)
			en.fireShot(st, shot, e)
			st.Commit()
			if len(st.Projectiles) != 1 {
				t.Fatalf("Expected 1 projectile, got %d", len(st.Projectiles))
			}

			speed := en.shotSpeed(e)
			from, to := e.Box.Center(), st.Player.Center()
			to.X += tt.velX * core.Dist(from, to) / speed * tt.predict
			want := to.Sub(from).Angle()

			got := st.Projectiles[0].Vel.Angle()
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("Expected angle %.4f, got %.4f", want, got)
			}

			direct := st.Player.Center().Sub(from).Angle()
			leads := tt.predict > 0 && tt.velX != 0
			if leads == (math.Abs(got-direct) < 1e-9) {
				t.Errorf("Expected lead=%v, got angle %.4f vs direct %.4f", leads, got, direct)
			}
		})
	}
}
