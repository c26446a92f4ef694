package game

import "fmt"

// ActionKind tags every mutation the engine accepts. The declaration order
// is the canonical tag order used when sorting legal actions.
type ActionKind uint8

const (
	ActionRoll ActionKind = iota
	ActionBuildRoad
	ActionBuildSettlement
	ActionBuildCity
	ActionBuyDevelopmentCard
	ActionPlayKnight
	ActionPlayYearOfPlenty
	ActionPlayMonopoly
	ActionPlayRoadBuilding
	ActionMaritimeTrade
	ActionMoveRobber
	ActionDiscard
	ActionEndTurn

	// Inter-player trade kinds are reserved in the vocabulary but never
	// produced by the generator; the acceptance protocol is not wired.
	ActionOfferTrade
	ActionAcceptTrade
	ActionRejectTrade
	ActionConfirmTrade
	ActionCancelTrade
)

var actionKindNames = map[ActionKind]string{
	ActionRoll:               "Roll",
	ActionBuildRoad:          "BuildRoad",
	ActionBuildSettlement:    "BuildSettlement",
	ActionBuildCity:          "BuildCity",
	ActionBuyDevelopmentCard: "BuyDevelopmentCard",
	ActionPlayKnight:         "PlayKnight",
	ActionPlayYearOfPlenty:   "PlayYearOfPlenty",
	ActionPlayMonopoly:       "PlayMonopoly",
	ActionPlayRoadBuilding:   "PlayRoadBuilding",
	ActionMaritimeTrade:      "MaritimeTrade",
	ActionMoveRobber:         "MoveRobber",
	ActionDiscard:            "Discard",
	ActionEndTurn:            "EndTurn",
	ActionOfferTrade:         "OfferTrade",
	ActionAcceptTrade:        "AcceptTrade",
	ActionRejectTrade:        "RejectTrade",
	ActionConfirmTrade:       "ConfirmTrade",
	ActionCancelTrade:        "CancelTrade",
}

func (k ActionKind) String() string { return actionKindNames[k] }

// Action is a flat, comparable record describing one mutation. Fields not
// used by a kind hold their zero or sentinel value, so actions can serve as
// map keys in search trees.
//
//   - Node: BuildSettlement, BuildCity.
//   - Edge: BuildRoad.
//   - Coord, Victim: MoveRobber (Victim NoColor when nobody is robbed).
//   - Dice: Roll; {0,0} draws from the game RNG, anything else is a fixed
//     roll used by replays and search.
//   - Give, Take, Ratio: MaritimeTrade. YearOfPlenty reuses Give/Take for
//     its one or two picks (Take NoResource for a single pick); Monopoly
//     uses Give.
type Action struct {
	Kind   ActionKind
	Color  Color
	Node   NodeId
	Edge   EdgeId
	Coord  Coordinate
	Victim Color
	Dice   [2]uint8
	Give   Resource
	Take   Resource
	Ratio  uint8
}

func (a Action) String() string {
	switch a.Kind {
	case ActionBuildRoad:
		return fmt.Sprintf("%s(%d) %d-%d", a.Kind, a.Color, a.Edge.A, a.Edge.B)
	case ActionBuildSettlement, ActionBuildCity:
		return fmt.Sprintf("%s(%d) node %d", a.Kind, a.Color, a.Node)
	case ActionMoveRobber:
		return fmt.Sprintf("%s(%d) %v victim %d", a.Kind, a.Color, a.Coord, a.Victim)
	case ActionMaritimeTrade:
		return fmt.Sprintf("%s(%d) %d %s for 1 %s", a.Kind, a.Color, a.Ratio, a.Give, a.Take)
	case ActionPlayMonopoly:
		return fmt.Sprintf("%s(%d) %s", a.Kind, a.Color, a.Give)
	default:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Color)
	}
}

// less orders actions canonically: tag order first, then ascending node,
// edge and remaining payload fields. The generator sorts with it so that a
// fixed seed replays identically.
func (a Action) less(b Action) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	if a.Edge != b.Edge {
		if a.Edge.A != b.Edge.A {
			return a.Edge.A < b.Edge.A
		}
		return a.Edge.B < b.Edge.B
	}
	if a.Coord != b.Coord {
		if a.Coord.Q != b.Coord.Q {
			return a.Coord.Q < b.Coord.Q
		}
		return a.Coord.R < b.Coord.R
	}
	if a.Victim != b.Victim {
		return a.Victim < b.Victim
	}
	if a.Give != b.Give {
		return a.Give < b.Give
	}
	if a.Take != b.Take {
		return a.Take < b.Take
	}
	return a.Ratio < b.Ratio
}
