package physics

import (
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// MoveCollectibles lets falling orbs drop until they rest on a platform or
// the ground.
func MoveCollectibles(st *world.State, prm Params, dt float64) {
	dtF := dt * 60
	for _, c := range st.Collectibles {
		if c.Removed() || !c.Falling {
			continue
		}
		c.VelY += prm.CollectibleGravity * dtF
		if c.VelY < 0 {
			// rising out of the body that dropped it
			c.Box.Y += c.VelY * dtF
			continue
		}
		var landed bool
		c.Box, c.VelY, landed = collide(st, c.Box, c.VelY, dtF)
		if landed {
			c.Falling = false
			c.VelY = 0
		}
	}
}

// Collect takes every landed orb the player touches and returns them.
func Collect(st *world.State) []*world.Collectible {
	pl := st.Player
	if pl == nil {
		return nil
	}
	var out []*world.Collectible
	for _, c := range st.Collectibles {
		if c.Removed() || c.Falling || !c.Box.Intersects(pl.Box) {
			continue
		}
		c.Take()
		out = append(out, c)
	}
	return out
}
