package mana

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CostKind is one symbol class of a mana cost.
type CostKind string

const (
	CostWhite     CostKind = "W"
	CostBlue      CostKind = "U"
	CostBlack     CostKind = "B"
	CostRed       CostKind = "R"
	CostGreen     CostKind = "G"
	CostColorless CostKind = "C"
	CostGeneric   CostKind = "GENERIC"
	CostX         CostKind = "X"
	CostTwoX      CostKind = "XX"
)

// payOrder is the order symbols are paid in: exact colors first, then
// generic, then X, so generic never eats mana a colored symbol needs.
var payOrder = map[CostKind]int{
	CostWhite:     0,
	CostBlue:      1,
	CostBlack:     2,
	CostRed:       3,
	CostGreen:     4,
	CostColorless: 5,
	CostGeneric:   6,
	CostX:         7,
	CostTwoX:      8,
}

var costMana = map[CostKind]Mana{
	CostWhite:     White,
	CostBlue:      Blue,
	CostBlack:     Black,
	CostRed:       Red,
	CostGreen:     Green,
	CostColorless: Colorless,
}

// Cost is one symbol of a mana cost. Generic carries the amount for
// CostGeneric and is ignored otherwise.
type Cost struct {
	Kind    CostKind
	Generic int
}

// Mana returns the exact mana kind a colored symbol requires.
func (c Cost) Mana() (Mana, bool) {
	m, ok := costMana[c.Kind]
	return m, ok
}

func (c Cost) String() string {
	switch c.Kind {
	case CostGeneric:
		return fmt.Sprintf("{%d}", c.Generic)
	case CostTwoX:
		return "{X}{X}"
	default:
		return "{" + string(c.Kind) + "}"
	}
}

// Costs is a full mana cost such as {2}{R}{R}.
type Costs []Cost

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string (e.g. "{1}{G}", "{2}{R}{R}", "{X}{R}").
func ParseCost(costStr string) (Costs, error) {
	costStr = strings.TrimSpace(costStr)
	if costStr == "" {
		return nil, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no mana symbols in %q", costStr)
	}

	var (
		costs   Costs
		generic int
		xs      int
	)
	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "W", "U", "B", "R", "G", "C":
			costs = append(costs, Cost{Kind: CostKind(symbol)})
		case "X":
			xs++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			generic += num
		}
	}

	if generic > 0 {
		costs = append(costs, Cost{Kind: CostGeneric, Generic: generic})
	}
	switch xs {
	case 0:
	case 1:
		costs = append(costs, Cost{Kind: CostX})
	case 2:
		costs = append(costs, Cost{Kind: CostTwoX})
	default:
		return nil, fmt.Errorf("unsupported number of X symbols (%d) in %q", xs, costStr)
	}

	return costs.Sorted(), nil
}

// MustParseCost is ParseCost for literals known to be valid.
func MustParseCost(costStr string) Costs {
	costs, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return costs
}

// Sorted returns a copy ordered for payment.
func (cs Costs) Sorted() Costs {
	out := append(Costs(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return payOrder[out[i].Kind] < payOrder[out[j].Kind]
	})
	return out
}

// CMC returns the converted mana cost, counting X as x.
func (cs Costs) CMC(x int) int {
	total := 0
	for _, c := range cs {
		switch c.Kind {
		case CostGeneric:
			total += c.Generic
		case CostX:
			total += x
		case CostTwoX:
			total += 2 * x
		default:
			total++
		}
	}
	return total
}

// HasX reports whether the cost contains an X symbol.
func (cs Costs) HasX() bool {
	for _, c := range cs {
		if c.Kind == CostX || c.Kind == CostTwoX {
			return true
		}
	}
	return false
}

// Colors returns the colored mana kinds appearing in the cost.
func (cs Costs) Colors() []Mana {
	seen := make(map[Mana]bool)
	var out []Mana
	for _, c := range cs {
		if m, ok := c.Mana(); ok && m != Colorless && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (cs Costs) String() string {
	var b strings.Builder
	for _, c := range cs.Sorted() {
		if c.Kind == CostX || c.Kind == CostTwoX {
			continue
		}
		b.WriteString(c.String())
	}
	prefix := ""
	for _, c := range cs {
		switch c.Kind {
		case CostX:
			prefix += "{X}"
		case CostTwoX:
			prefix += "{X}{X}"
		}
	}
	return prefix + b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (cs Costs) MarshalText() ([]byte, error) {
	return []byte(cs.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (cs *Costs) UnmarshalText(text []byte) error {
	parsed, err := ParseCost(string(text))
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}

// UnmarshalYAML accepts a cost written as a quoted string, e.g. cost: "{1}{R}".
func (cs *Costs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: mana cost must be a string like \"{1}{R}\"", node.Line)
	}
	return cs.UnmarshalText([]byte(node.Value))
}

// MarshalYAML writes the cost back in symbol form.
func (cs Costs) MarshalYAML() (interface{}, error) {
	return cs.String(), nil
}
