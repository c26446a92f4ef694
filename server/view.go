package server

import (
	"catan/game"
)

// TileView is one land tile in a state snapshot.
type TileView struct {
	Coord    game.Coordinate `json:"coord"`
	Resource string          `json:"resource"`
	Number   uint8           `json:"number,omitempty"`
	Robber   bool            `json:"robber,omitempty"`
}

// BuildingView is a settlement or city on a node.
type BuildingView struct {
	Node game.NodeId `json:"node"`
	Kind string      `json:"kind"`
}

// RoadView is one placed road.
type RoadView struct {
	A game.NodeId `json:"a"`
	B game.NodeId `json:"b"`
}

// PlayerView is the full (server-side) view of one seat. The engine is
// authoritative, so hands are not hidden here; clients that need hidden
// information filter before forwarding.
type PlayerView struct {
	Color       game.Color     `json:"color"`
	VictoryPts  int            `json:"victoryPoints"`
	Hand        [5]uint8       `json:"hand"`
	DevCards    int            `json:"devCards"`
	ArmySize    int            `json:"armySize"`
	RoadLength  int            `json:"roadLength"`
	Settlements []BuildingView `json:"settlements"`
	Cities      []BuildingView `json:"cities"`
	Roads       []RoadView     `json:"roads"`
}

// StateView is the wire snapshot of a game.
type StateView struct {
	GameID       string       `json:"gameId"`
	Tick         int          `json:"tick"`
	Prompt       string       `json:"prompt"`
	CurrentColor game.Color   `json:"currentColor"`
	TurnColor    game.Color   `json:"turnColor"`
	LastRoll     [2]uint8     `json:"lastRoll"`
	Bank         [5]uint8     `json:"bank"`
	DevDeck      int          `json:"devDeck"`
	LongestRoad  game.Color   `json:"longestRoad"`
	LargestArmy  game.Color   `json:"largestArmy"`
	Winner       *game.Color  `json:"winner,omitempty"`
	Tiles        []TileView   `json:"tiles"`
	Players      []PlayerView `json:"players"`
}

func buildingViews(bs []game.Building) []BuildingView {
	out := make([]BuildingView, 0, len(bs))
	for _, b := range bs {
		kind := "settlement"
		if b.Kind == game.CityBuilding {
			kind = "city"
		}
		out = append(out, BuildingView{Node: b.Node, Kind: kind})
	}
	return out
}

// newStateView flattens a state snapshot into the wire form.
func newStateView(gameID string, s *game.State) StateView {
	robber := s.RobberTile()
	view := StateView{
		GameID:       gameID,
		Tick:         s.Tick(),
		Prompt:       s.ActionPrompt().String(),
		CurrentColor: s.CurrentColor(),
		TurnColor:    s.CurrentTurnColor(),
		LastRoll:     s.LastRoll(),
		Bank:         s.BankResources(),
		DevDeck:      s.DevCardsRemaining(),
	}
	view.LongestRoad, _ = s.LongestRoad()
	view.LargestArmy, _ = s.LargestArmy()
	if winner, over := s.Winner(); over {
		view.Winner = &winner
	}

	for _, t := range s.Board().LandTiles() {
		view.Tiles = append(view.Tiles, TileView{
			Coord:    t.Coord,
			Resource: t.Resource.String(),
			Number:   t.Number,
			Robber:   t.ID == robber.ID,
		})
	}

	for i := 0; i < s.NumPlayers(); i++ {
		c := game.Color(i)
		pv := PlayerView{
			Color:       c,
			VictoryPts:  s.ActualVPs(c),
			Hand:        s.PlayerHand(c),
			ArmySize:    s.ArmySize(c),
			RoadLength:  s.RoadLength(c),
			Settlements: buildingViews(s.Settlements(c)),
			Cities:      buildingViews(s.Cities(c)),
		}
		for _, card := range s.DevHand(c) {
			pv.DevCards += int(card)
		}
		for _, e := range s.Board().Edges() {
			if owner, ok := s.RoadAt(e); ok && owner == c {
				pv.Roads = append(pv.Roads, RoadView{A: e.A, B: e.B})
			}
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

// ActionView pairs a legal action with a readable description. Clients
// submit the action object back verbatim.
type ActionView struct {
	Action      game.Action `json:"action"`
	Description string      `json:"description"`
}

func actionViews(actions []game.Action) []ActionView {
	out := make([]ActionView, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionView{Action: a, Description: a.String()})
	}
	return out
}
