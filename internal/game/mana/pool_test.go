package mana

import (
	"testing"
)

func TestPool_AddAndCount(t *testing.T) {
	pool := NewPool()

	pool.Add(White, SourceAny, 2)
	if pool.Count(White) != 2 {
		t.Errorf("Expected 2 white mana, got %d", pool.Count(White))
	}

	pool.Add(White, SourceTreasure, 1)
	if pool.Count(White) != 3 {
		t.Errorf("Expected 3 white mana across sources, got %d", pool.Count(White))
	}
	if pool.CountFrom(White, SourceTreasure) != 1 {
		t.Errorf("Expected 1 white mana from a treasure, got %d", pool.CountFrom(White, SourceTreasure))
	}

	pool.Add(Blue, SourceAny, 0)
	if pool.Count(Blue) != 0 {
		t.Errorf("Adding zero should not change the pool")
	}
}

func TestPool_SpendSource(t *testing.T) {
	pool := NewPool()
	pool.Add(Red, SourceTreasure, 1)

	if _, ok := pool.Spend(Red, SourceCave); ok {
		t.Fatal("Expected spending cave mana to fail")
	}

	spent, ok := pool.Spend(Red, SourceAny)
	if !ok {
		t.Fatal("Expected SourceAny to fall back to treasure mana")
	}
	if spent.Source != SourceTreasure {
		t.Errorf("Expected spent source TREASURE, got %s", spent.Source)
	}
	if !pool.IsEmpty() {
		t.Errorf("Expected empty pool, got %s", pool)
	}
}

// Pay is exact: colored first, generic from the most plentiful kind.
func TestPool_PayIsExact(t *testing.T) {
	pool := NewPool()
	pool.Add(Colorless, SourceAny, 2)
	pool.Add(Red, SourceAny, 1)

	if _, err := pool.Pay(MustParseCost("{1}{R}"), 0); err != nil {
		t.Fatalf("Expected to pay {1}{R}: %v", err)
	}
	if pool.Count(Colorless) != 1 {
		t.Errorf("Expected 1 colorless left, got %d", pool.Count(Colorless))
	}
	if pool.Count(Red) != 0 {
		t.Errorf("Expected 0 red left, got %d", pool.Count(Red))
	}

	if _, err := pool.Pay(MustParseCost("{R}"), 0); err == nil {
		t.Fatal("Expected paying {R} from a pool without red to fail")
	}
	if pool.Count(Colorless) != 1 || pool.Total() != 1 {
		t.Errorf("Failed payment changed the pool: %s", pool)
	}
}

func TestPool_PayAllOrNothing(t *testing.T) {
	pool := NewPool()
	pool.Add(Green, SourceAny, 1)
	pool.Add(White, SourceAny, 1)

	if pool.CanPay(MustParseCost("{2}{G}"), 0) {
		t.Fatal("Expected {2}{G} to be unpayable with two mana")
	}
	if _, err := pool.Pay(MustParseCost("{2}{G}"), 0); err == nil {
		t.Fatal("Expected pay to fail")
	}
	if pool.Count(Green) != 1 || pool.Count(White) != 1 {
		t.Errorf("Pool changed after failed payment: %s", pool)
	}
}

func TestPool_PayX(t *testing.T) {
	pool := NewPool()
	pool.Add(Red, SourceAny, 4)

	cost := MustParseCost("{X}{R}")
	if !pool.CanPay(cost, 3) {
		t.Fatal("Expected X=3 to be payable")
	}
	if pool.CanPay(cost, 4) {
		t.Fatal("Expected X=4 to be unpayable")
	}
	if _, err := pool.Pay(cost, 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !pool.IsEmpty() {
		t.Errorf("Expected empty pool, got %s", pool)
	}
}

func TestPool_GenericPrefersMostPlentiful(t *testing.T) {
	pool := NewPool()
	pool.Add(Blue, SourceAny, 3)
	pool.Add(Black, SourceAny, 1)

	spent, ok := pool.SpendGeneric(2)
	if !ok {
		t.Fatal("Expected generic spend to succeed")
	}
	for _, s := range spent {
		if s.Mana != Blue {
			t.Errorf("Expected blue to be spent first, got %s", s.Mana)
		}
	}
	if pool.Count(Blue) != 1 || pool.Count(Black) != 1 {
		t.Errorf("Unexpected pool after generic spend: %s", pool)
	}
}

func TestPool_DrainAndClone(t *testing.T) {
	pool := NewPool()
	pool.Add(White, SourceAny, 2)
	pool.Add(Colorless, SourceCave, 1)

	clone := pool.Clone()
	if lost := pool.Drain(); lost != 3 {
		t.Errorf("Expected 3 mana lost, got %d", lost)
	}
	if !pool.IsEmpty() {
		t.Errorf("Expected drained pool to be empty")
	}
	if clone.Total() != 3 {
		t.Errorf("Clone should be unaffected by drain, got %d", clone.Total())
	}
	if clone.String() != "{W}{W}{C}" {
		t.Errorf("Expected {W}{W}{C}, got %s", clone.String())
	}
	if len(clone.Entries()) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(clone.Entries()))
	}
}
