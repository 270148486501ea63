package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	title  cases.Caser
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w, title: cases.Title(language.English)}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.Hand:
		o.printHand(v)
	case response.Action:
		o.printAction(v)
	case response.Player:
		o.printPlayer(v)
	case model.GameResult:
		o.printResult(v)
	case model.PlayerStats:
		o.printStats(v)
	case response.Results:
		o.printResults(v)
	case response.Health:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

var valueNames = map[model.CardValue]string{
	model.ValueDrawTwo:      "draw two",
	model.ValueWildDrawFour: "wild draw four",
}

// Card renders a card for people, e.g. "Red 5" or "Wild Draw Four"
func (o *Output) Card(c model.Card) string {
	value := string(c.Value)
	if name, ok := valueNames[c.Value]; ok {
		value = name
	}
	if c.IsWild() {
		return o.title.String(value)
	}
	return o.title.String(string(c.Color) + " " + value)
}

func (o *Output) cards(cards []model.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = o.Card(c)
	}
	return strings.Join(names, ", ")
}

func (o *Output) printGame(g response.Game) {
	_, _ = fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	_, _ = fmt.Fprintf(o.w, "Host: %s\n", g.HostID)
	if len(g.Config.HouseRules) > 0 {
		rules := make([]string, len(g.Config.HouseRules))
		for i, r := range g.Config.HouseRules {
			rules[i] = string(r)
		}
		_, _ = fmt.Fprintf(o.w, "House rules: %s\n", strings.Join(rules, ", "))
	}

	if g.Status == model.GameStatusInProgress {
		if g.TopCard != nil {
			_, _ = fmt.Fprintf(o.w, "Top card: %s\n", o.Card(*g.TopCard))
		}
		if g.CurrentColor != nil {
			_, _ = fmt.Fprintf(o.w, "Color: %s\n", o.title.String(string(*g.CurrentColor)))
		}
		_, _ = fmt.Fprintf(o.w, "Direction: %s\n", g.Direction)
		_, _ = fmt.Fprintf(o.w, "Draw pile: %d\n", g.DrawPileCount)
		if g.MustDraw > 0 {
			_, _ = fmt.Fprintf(o.w, "Pending draw: %d\n", g.MustDraw)
		}
	}

	_, _ = fmt.Fprintf(o.w, "Players (%d/%d):\n", len(g.Players), g.Config.MaxPlayers)
	for _, p := range g.Players {
		marker := " "
		if p.PlayerID == g.CurrentTurnPlayerID {
			marker = ">"
		}
		line := fmt.Sprintf("  %s %s (%s) - %d cards", marker, p.DisplayName, p.PlayerID, p.CardCount)
		if p.IsBot {
			line += " [bot]"
		}
		if p.HasCalledUno {
			line += " [UNO]"
		}
		_, _ = fmt.Fprintln(o.w, line)
	}

	if g.WinnerID != "" {
		_, _ = fmt.Fprintf(o.w, "Winner: %s\n", g.WinnerID)
	}
}

func (o *Output) printHand(h response.Hand) {
	playable := make(map[int]bool, len(h.Playable))
	for _, i := range h.Playable {
		playable[i] = true
	}

	_, _ = fmt.Fprintf(o.w, "Hand (%d cards):\n", len(h.Cards))
	for i, c := range h.Cards {
		marker := " "
		if playable[i] {
			marker = "*"
		}
		_, _ = fmt.Fprintf(o.w, "  %s %2d: %s\n", marker, i, o.Card(c))
	}
	if len(h.Playable) == 0 {
		_, _ = fmt.Fprintln(o.w, "No playable cards")
	}
}

func (o *Output) printAction(a response.Action) {
	_, _ = fmt.Fprintf(o.w, "Action: %s (%s)\n", a.ActionID, a.TurnPhase)
	for _, e := range a.Events {
		_, _ = fmt.Fprintf(o.w, "  %s %s\n", e.Type, e.PlayerID)
	}
	if len(a.CardsDrawn) > 0 {
		_, _ = fmt.Fprintf(o.w, "Drew: %s\n", o.cards(a.CardsDrawn))
	}
	_, _ = fmt.Fprintf(o.w, "Hand: %s\n", o.cards(a.Hand))
	for _, m := range a.BotMoves {
		o.printBotMove(m)
	}
	if a.Result != nil {
		o.printResult(*a.Result)
		return
	}
	if a.Game.TopCard != nil {
		_, _ = fmt.Fprintf(o.w, "Top card: %s\n", o.Card(*a.Game.TopCard))
	}
	_, _ = fmt.Fprintf(o.w, "Next: %s\n", a.Game.CurrentTurnPlayerID)
}

func (o *Output) printBotMove(m response.BotMove) {
	switch {
	case m.Card != nil:
		_, _ = fmt.Fprintf(o.w, "  %s played %s\n", m.PlayerID, o.Card(*m.Card))
	case m.TargetID != "":
		_, _ = fmt.Fprintf(o.w, "  %s challenged %s\n", m.PlayerID, m.TargetID)
	case m.PlayerID != "":
		_, _ = fmt.Fprintf(o.w, "  %s: %s\n", m.PlayerID, m.Type)
	default:
		_, _ = fmt.Fprintln(o.w, "  game over")
	}
}

func (o *Output) printPlayer(p response.Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.PlayerID)
	_, _ = fmt.Fprintf(o.w, "Cards: %d\n", p.CardCount)
	_, _ = fmt.Fprintf(o.w, "Called UNO: %t\n", p.HasCalledUno)
}

func (o *Output) printResult(r model.GameResult) {
	_, _ = fmt.Fprintf(o.w, "Winner: %s (%d points)\n", r.WinnerID, r.WinnerScore)
	for _, rk := range r.Rankings {
		_, _ = fmt.Fprintf(o.w, "  %d. %s - %d cards, %d points\n", rk.Rank, rk.PlayerID, rk.CardsRemaining, rk.HandScore)
	}
}

func (o *Output) printStats(s model.PlayerStats) {
	_, _ = fmt.Fprintf(o.w, "Player: %s\n", s.PlayerID)
	_, _ = fmt.Fprintf(o.w, "Games: %d played, %d won, %d lost\n", s.GamesPlayed, s.GamesWon, s.GamesLost)
	_, _ = fmt.Fprintf(o.w, "Win rate: %.1f%%\n", s.WinRate*100)
	_, _ = fmt.Fprintf(o.w, "Score: %d total, %d best\n", s.TotalScore, s.HighestGameScore)
	_, _ = fmt.Fprintf(o.w, "Cards played: %d (%d special)\n", s.CardsPlayed, s.SpecialCardsPlayed)
}

func (o *Output) printResults(r response.Results) {
	if len(r.Results) == 0 {
		_, _ = fmt.Fprintf(o.w, "No results for %s\n", r.PlayerID)
		return
	}
	for _, res := range r.Results {
		_, _ = fmt.Fprintf(o.w, "%s %s won by %s (%d points)\n",
			res.CompletedAt.Format("2006-01-02 15:04"), res.GameID, res.WinnerID, res.WinnerScore)
	}
}
