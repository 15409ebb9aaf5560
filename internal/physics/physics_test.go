package physics

import (
	"math"
	"testing"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

const frame = 1.0 / 60

func testWorld() *world.State {
	st := world.NewState(1000, 600)
	st.ResetScene(world.DefaultPlatforms(1000, 600, 30))
	stats := world.PlayerStats{Width: 40, Height: 60, HP: 120, Speed: 5, JumpForce: 13, CritMult: 1.5, ProjectileScale: 1}
	st.Player = world.NewPlayer(stats, world.Weapon{ID: "wizard_staff", BaseInterval: 600, BaseDamage: 12}, 1000, st.GroundY())
	st.Now = 1000
	return st
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRunAndClamp(t *testing.T) {
	tests := []struct {
		name   string
		action core.Action
		frames int
		wantX  float64
		facing float64
	}{
		{"right", core.ActionRight, 10, 530, 1},
		{"left", core.ActionLeft, 10, 430, -1},
		{"left wall", core.ActionLeft, 200, 0, -1},
		{"right wall", core.ActionRight, 200, 960, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testWorld()
			rng := core.NewSimpleRNG(1)
			for i := 0; i < tt.frames; i++ {
				MovePlayer(st, input(tt.action), DefaultParams(), rng, frame)
			}
			p := st.Player
			if math.Abs(p.Box.X-tt.wantX) > 1e-6 {
				t.Errorf("Expected x %v, got %v", tt.wantX, p.Box.X)
			}
			if p.Facing != tt.facing {
				t.Errorf("Expected facing %v, got %v", tt.facing, p.Facing)
			}
			if !p.Grounded || p.Box.Bottom() != st.GroundY() {
				t.Errorf("Expected player to stay on the ground, bottom %v", p.Box.Bottom())
			}
		})
	}
}

func TestVelXAndSlow(t *testing.T) {
	st := testWorld()
	rng := core.NewSimpleRNG(1)
	MovePlayer(st, input(core.ActionRight), DefaultParams(), rng, frame)
	if math.Abs(st.Player.VelX-5) > 1e-9 {
		t.Errorf("Expected VelX 5, got %v", st.Player.VelX)
	}

	st.Player.SlowedUntil = st.Now + 100
	MovePlayer(st, input(core.ActionRight), DefaultParams(), rng, frame)
	if math.Abs(st.Player.VelX-2.5) > 1e-9 {
		t.Errorf("Expected slowed VelX 2.5, got %v", st.Player.VelX)
	}

	MovePlayer(st, input(), DefaultParams(), rng, frame)
	if st.Player.VelX != 0 {
		t.Errorf("Expected VelX 0 when idle, got %v", st.Player.VelX)
	}
}

func TestJumpEdgeDetection(t *testing.T) {
	st := testWorld()
	p := st.Player
	rng := core.NewSimpleRNG(1)

	step := MovePlayer(st, input(core.ActionJump), DefaultParams(), rng, frame)
	if !step.Jumped || p.Grounded || p.JumpsLeft != 0 {
		t.Fatalf("Expected a jump, got %+v jumps %d", step, p.JumpsLeft)
	}
	startVel := p.VelY

	// Holding the key does not jump again.
	for i := 0; i < 5; i++ {
		if step := MovePlayer(st, input(core.ActionJump), DefaultParams(), rng, frame); step.Jumped {
			t.Fatal("Expected no jump while held")
		}
	}
	if p.VelY <= startVel {
		t.Errorf("Expected gravity to slow the ascent, got %v", p.VelY)
	}

	landed := false
	for i := 0; i < 200 && !landed; i++ {
		landed = MovePlayer(st, input(), DefaultParams(), rng, frame).Landed
	}
	if !landed || !p.Grounded || p.JumpsLeft != p.MaxJumps {
		t.Fatalf("Expected landing with charges restored, grounded %v jumps %d", p.Grounded, p.JumpsLeft)
	}

	if step := MovePlayer(st, input(core.ActionJump), DefaultParams(), rng, frame); !step.Jumped {
		t.Error("Expected a fresh press to jump after landing")
	}
}

func TestEtherealOnJump(t *testing.T) {
	st := testWorld()
	p := st.Player
	p.Transcendence.Ethereal = true
	MovePlayer(st, input(core.ActionJump), DefaultParams(), core.NewSimpleRNG(1), frame)
	if !p.Ethereal(st.Now + 100) {
		t.Errorf("Expected ethereal window after a jump, until %v", p.Transcendence.EtherealUntil)
	}
}

func TestPlatformCollision(t *testing.T) {
	st := testWorld()
	ledge := st.Platforms[2].Box // 400..600 at y 400

	tests := []struct {
		name     string
		y, vy    float64
		wantY    float64
		grounded bool
	}{
		{"lands on top", ledge.Y - 60 - 2, 5, ledge.Y - 60, true},
		{"bumps underside", ledge.Bottom() + 2, -10, ledge.Bottom(), false},
		{"falls past when below", ledge.Y + 5, 5, ledge.Y + 5 + 5 + 0.6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := core.NewRect(480, tt.y, 40, 60)
			got, _, grounded := collide(st, box, tt.vy+0.6, 1)
			if math.Abs(got.Y-tt.wantY) > 1e-9 || grounded != tt.grounded {
				t.Errorf("Expected y %v grounded %v, got %v %v", tt.wantY, tt.grounded, got.Y, grounded)
			}
		})
	}
}

func TestHomingKeepsSpeed(t *testing.T) {
	st := testWorld()
	e := &world.Enemy{Box: core.NewRect(300, 0, 40, 40), HP: 10, MaxHP: 10}
	st.SpawnEnemy(e)
	p := &world.Projectile{Owner: world.OwnerPlayer, Box: core.CenteredAt(core.Vec{X: 320, Y: 300}, 10, 10), Vel: core.Vec{X: 10}, Homing: 0.15}
	st.SpawnProjectile(p)
	st.Commit()

	for i := 0; i < 10; i++ {
		MoveProjectiles(st, DefaultParams(), core.NewSimpleRNG(1), frame)
	}
	if math.Abs(p.Vel.Len()-10) > 1e-6 {
		t.Errorf("Expected speed 10, got %v", p.Vel.Len())
	}
	if p.Vel.Y >= 0 {
		t.Errorf("Expected shot to turn up toward the enemy, vel %+v", p.Vel)
	}
}

func TestPulls(t *testing.T) {
	st := testWorld()
	e := &world.Enemy{Box: core.NewRect(180, 280, 40, 40), HP: 10, MaxHP: 10}
	st.SpawnEnemy(e)
	hole := &world.Projectile{Owner: world.OwnerNeutral, Kind: world.KindBlackHole, Box: core.CenteredAt(core.Vec{X: 300, Y: 300}, 30, 30), Pull: 0.3, Radius: 150}
	st.SpawnProjectile(hole)

	pc := st.Player.Center()
	vortex := &world.Projectile{Owner: world.OwnerEnemy, Kind: world.KindVortex, Box: core.CenteredAt(pc.Add(core.Vec{X: 100}), 60, 60), Pull: 0.08, Radius: 220}
	st.SpawnProjectile(vortex)
	st.Commit()

	before := core.Dist(e.Box.Center(), hole.Box.Center())
	MoveProjectiles(st, DefaultParams(), core.NewSimpleRNG(1), frame)

	if after := core.Dist(e.Box.Center(), hole.Box.Center()); after >= before {
		t.Errorf("Expected enemy pulled toward the black hole, %v -> %v", before, after)
	}
	if st.Player.Center().X <= pc.X {
		t.Errorf("Expected player dragged toward the vortex, x %v -> %v", pc.X, st.Player.Center().X)
	}
}

func TestBenderDrawsShots(t *testing.T) {
	st := testWorld()
	bender := &world.Projectile{Owner: world.OwnerPlayer, Kind: world.KindBender, Box: core.CenteredAt(core.Vec{X: 300, Y: 300}, 20, 20), Pull: 0.05, Radius: 120}
	shot := &world.Projectile{Owner: world.OwnerEnemy, Box: core.CenteredAt(core.Vec{X: 300, Y: 250}, 10, 10)}
	st.SpawnProjectile(bender)
	st.SpawnProjectile(shot)
	st.Commit()

	MoveProjectiles(st, DefaultParams(), core.NewSimpleRNG(1), frame)
	if shot.Vel.Y <= 0 {
		t.Errorf("Expected the shot bent toward the orb, vel %+v", shot.Vel)
	}
	if bender.Vel != (core.Vec{}) {
		t.Errorf("Expected the bender itself unaffected, vel %+v", bender.Vel)
	}
}

func TestCollectiblesLandAndCollect(t *testing.T) {
	st := testWorld()
	pc := st.Player.Center()
	orb := &world.Collectible{Kind: world.CollectHeal, Box: core.CenteredAt(core.Vec{X: pc.X, Y: 540}, 16, 16), Value: 15, VelY: -3, Falling: true}
	ledgeOrb := &world.Collectible{Kind: world.CollectSoul, Box: core.NewRect(150, 400, 16, 16), Value: 50, Falling: true}
	st.SpawnCollectible(orb)
	st.SpawnCollectible(ledgeOrb)
	st.Commit()

	if got := Collect(st); len(got) != 0 {
		t.Fatalf("Expected falling orbs to be out of reach, got %d", len(got))
	}
	for i := 0; i < 300; i++ {
		MoveCollectibles(st, DefaultParams(), frame)
	}
	if orb.Falling || orb.Box.Bottom() != st.GroundY() {
		t.Errorf("Expected orb on the ground, bottom %v", orb.Box.Bottom())
	}
	if ledgeOrb.Falling || ledgeOrb.Box.Bottom() != st.Platforms[1].Box.Y {
		t.Errorf("Expected orb on the ledge, bottom %v", ledgeOrb.Box.Bottom())
	}

	got := Collect(st)
	if len(got) != 1 || got[0] != orb || !orb.Removed() {
		t.Errorf("Expected to collect the orb at the player's feet, got %d", len(got))
	}
	if len(Collect(st)) != 0 {
		t.Error("Expected a collected orb to be taken once")
	}
}
