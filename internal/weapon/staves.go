package weapon

import (
	"math"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// staff is a data-driven registry.Staff.
type staff struct {
	id       string
	title    string
	interval float64 // multiplier of the base interval
	damage   float64 // multiplier of the base damage
	fire     func(s registry.Shot) registry.Volley
}

func (st staff) ID() string    { return st.id }
func (st staff) Title() string { return st.title }

func (st staff) Weapon() world.Weapon {
	return world.Weapon{
		ID:           st.id,
		Name:         st.title,
		BaseInterval: baseInterval * st.interval,
		BaseDamage:   baseDamage * st.damage,
	}
}

func (st staff) Fire(s registry.Shot) registry.Volley {
	return st.fire(s)
}

func register(st staff) {
	registry.Register(st.id, func() registry.Staff { return st })
}

func single(s registry.Shot) registry.Volley {
	return registry.Volley{Projectiles: []*world.Projectile{BaseProjectile(s, 0, false)}}
}

func chaotic(s registry.Shot) registry.Volley {
	return registry.Volley{Projectiles: []*world.Projectile{BaseProjectile(s, 0, true)}}
}

func init() {
	register(staff{id: DefaultID, title: "Cajado do Mago", interval: 1, damage: 1, fire: single})

	register(staff{id: "emerald_staff", title: "Cajado Esmeralda", interval: 0.6, damage: 0.5,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Homing = 0.15
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "trident_staff", title: "Tridente Aquático", interval: 1.1, damage: 0.7,
		fire: func(s registry.Shot) registry.Volley {
			var v registry.Volley
			for _, off := range []float64{-0.2, 0, 0.2} {
				v.Projectiles = append(v.Projectiles, BaseProjectile(s, off, false))
			}
			return v
		}})

	register(staff{id: "boomstaff", title: "Cajado Explosivo", interval: 1.3, damage: 1.2,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Kind = world.KindFrictionSpark
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "thunder_staff", title: "Cajado Trovejante", interval: 1.2, damage: 0.9,
		fire: func(s registry.Shot) registry.Volley {
			v := single(s)
			v.Bolts = 1
			return v
		}})

	register(staff{id: "frozen_tip_staff", title: "Ponta Congelada", interval: 1, damage: 0.8,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Piercing += 2
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "rainbow_staff", title: "Cajado Arco-Íris", interval: 1, damage: 1, fire: chaotic})
	register(staff{id: "chaos_orb_staff", title: "Orbe do Caos", interval: 1, damage: 1, fire: chaotic})

	register(staff{id: "cosmic_echo_staff", title: "Eco Cósmico", interval: 1.4, damage: 0.7,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Kind = world.KindCosmicOrb
			p.Echoes = true
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "reality_bender_staff", title: "Dobra-Realidade", interval: 0.9, damage: 0.2,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Kind = world.KindBender
			p.Vel = p.Vel.Scale(0.3)
			p.Duration = 5000
			p.Radius = 120
			p.Pull = 0.05
			p.Piercing = 99
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "flesh_weaver_staff", title: "Tecelão da Carne", interval: 0.5, damage: 0.4, fire: fleshWeaver})

	register(staff{id: "gilded_aegis_staff", title: "Égide Dourada", interval: 1.1, damage: 0,
		fire: func(registry.Shot) registry.Volley {
			return registry.Volley{AegisWisp: true}
		}})

	register(staff{id: "void_gaze_staff", title: "Olhar do Vazio", interval: 2, damage: 0.6,
		fire: func(s registry.Shot) registry.Volley {
			p := BaseProjectile(s, 0, false)
			p.Kind = world.KindBeam
			p.Vel = p.Vel.Scale(0.4)
			p.Piercing = 5
			p.Duration = 800
			return registry.Volley{Projectiles: []*world.Projectile{p}}
		}})

	register(staff{id: "nexus_key_staff", title: "Chave do Nexus", interval: 1.3, damage: 0.8, fire: nexusKey})
}

// fleshWeaver lashes three short tentacles across a narrow arc.
func fleshWeaver(s registry.Shot) registry.Volley {
	center := s.Player.Center()
	aim := aimAngle(s)
	var v registry.Volley
	for i := 0; i < 3; i++ {
		angle := aim + float64(i-1)*math.Pi/12
		origin := center.Add(core.Polar(aim, 20))
		v.Projectiles = append(v.Projectiles, &world.Projectile{
			Owner:    world.OwnerPlayer,
			Kind:     world.KindTentacle,
			Box:      core.CenteredAt(origin, 10, 18),
			Vel:      core.Polar(angle, s.Speed*0.1),
			Damage:   s.Player.Damage,
			SpawnAt:  s.Now,
			Duration: 200,
		})
	}
	return v
}

// nexusKey opens a stationary portal that releases bursts of shots.
func nexusKey(s registry.Shot) registry.Volley {
	origin := s.Player.Center().Add(core.Polar(aimAngle(s), 80))
	return registry.Volley{Projectiles: []*world.Projectile{{
		Owner:    world.OwnerPlayer,
		Kind:     world.KindPortal,
		Box:      core.CenteredAt(origin, 30, 30),
		Damage:   s.Player.Damage,
		Piercing: 999,
		SpawnAt:  s.Now,
		Duration: 3000,
		Bursts:   4,
		Every:    500,
		LastAct:  s.Now,
	}}}
}

// PortalBurst returns the two shots a portal releases per burst.
func PortalBurst(portal *world.Projectile, rng *core.SimpleRNG, now float64) []*world.Projectile {
	out := make([]*world.Projectile, 0, 2)
	for i := 0; i < 2; i++ {
		out = append(out, &world.Projectile{
			Owner:    world.OwnerPlayer,
			Kind:     world.KindPortalShot,
			Box:      core.CenteredAt(portal.Box.Center(), 8, 8),
			Vel:      core.Polar(rng.Angle(), 8),
			Damage:   portal.Damage,
			SpawnAt:  now,
			Duration: 800,
		})
	}
	return out
}

// EchoBurst is the area left behind by a cosmic orb.
func EchoBurst(orb *world.Projectile, now float64) *world.Projectile {
	return &world.Projectile{
		Owner:    orb.Owner,
		Kind:     world.KindEchoBurst,
		Box:      core.CenteredAt(orb.Box.Center(), 50, 50),
		Damage:   orb.Damage * 0.8,
		Piercing: 99,
		SpawnAt:  now,
		Duration: 300,
	}
}

// Explosion is the blast a boomstaff shot leaves where it lands.
func Explosion(shot *world.Projectile, now float64) *world.Projectile {
	return &world.Projectile{
		Owner:    shot.Owner,
		Kind:     world.KindAreaBurst,
		Box:      core.CenteredAt(shot.Box.Center(), 40, 40),
		Damage:   shot.Damage * 0.5,
		Piercing: 99,
		SpawnAt:  now,
		Duration: 250,
	}
}
