package sound

import "testing"

func TestBoardDrainClears(t *testing.T) {
	var b Board
	b.Raise(PlayerJump, 100)
	b.Put(Intent{Kind: EnemyDeath, At: 120, Archetype: "dasher", MaxHP: 45})

	got := b.Drain()
	if len(got) != 2 {
		t.Fatalf("Expected 2 intents, got %d", len(got))
	}
	if got[0].Kind != EnemyDeath || got[0].Archetype != "dasher" {
		t.Errorf("Expected enemy_death first (kind order), got %+v", got[0])
	}
	if b.Pending(PlayerJump) {
		t.Error("Drain should clear the board")
	}
	if len(b.Drain()) != 0 {
		t.Error("Second drain should be empty")
	}
}

func TestBoardOverwrite(t *testing.T) {
	var b Board
	b.Put(Intent{Kind: PlayerHit, At: 1, Amount: 5})
	b.Put(Intent{Kind: PlayerHit, At: 2, Amount: 9})

	got := b.Drain()
	if len(got) != 1 || got[0].Amount != 9 || got[0].At != 2 {
		t.Errorf("Expected latest intent to win, got %+v", got)
	}
}

func TestNilBoardIsSafe(t *testing.T) {
	var b *Board
	b.Raise(Thunder, 1)
	if b.Drain() != nil {
		t.Error("nil board should drain nothing")
	}
}
