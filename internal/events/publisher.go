package events

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/unogame/internal/model"
)

// Publisher turns committed game events into stream frames named after the
// event type
type Publisher struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(hubs *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "events-publisher")),
	}
}

// Publish broadcasts events to the game's listeners, if any
func (p *Publisher) Publish(gameID model.GameID, events []model.Event) {
	hub := p.hubs.GetHub(gameID)
	if hub == nil {
		return
	}
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			p.logger.Error("failed to encode event",
				slog.String("game_id", string(gameID)),
				slog.String("type", string(e.Type)),
				slog.String("error", err.Error()))
			continue
		}
		hub.BroadcastEvent(string(e.Type), string(data))
	}
}
