package mana

// Mana is a single kind of mana that can sit in a pool.
type Mana string

const (
	White     Mana = "WHITE"
	Blue      Mana = "BLUE"
	Black     Mana = "BLACK"
	Red       Mana = "RED"
	Green     Mana = "GREEN"
	Colorless Mana = "COLORLESS"
)

// All lists every mana kind in canonical WUBRGC order.
var All = []Mana{White, Blue, Black, Red, Green, Colorless}

var manaSymbols = map[Mana]string{
	White:     "W",
	Blue:      "U",
	Black:     "B",
	Red:       "R",
	Green:     "G",
	Colorless: "C",
}

// Symbol returns the single-letter symbol for the mana kind.
func (m Mana) Symbol() string {
	if s, ok := manaSymbols[m]; ok {
		return s
	}
	return "?"
}

// Source identifies where mana came from. Some cards care about it
// ("if mana from a Treasure was spent to cast it").
type Source string

const (
	SourceAny      Source = "ANY"
	SourceTreasure Source = "TREASURE"
	SourceCave     Source = "CAVE"
	SourceBarracks Source = "BARRACKS"
)

// Sources lists sources in the order Spend falls back through them.
var Sources = []Source{SourceAny, SourceTreasure, SourceCave, SourceBarracks}
