package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sushihentaime/toolshelf/internal/common"
)

// Event announces a committed change to the catalog on the message broker.
type Event struct {
	Kind   common.BindingKey `json:"kind"`
	ID     int               `json:"id"`
	Title  string            `json:"title"`
	Slug   string            `json:"slug,omitempty"`
	Author string            `json:"author,omitempty"`
	At     time.Time         `json:"at"`
}

func ToolEvent(kind common.BindingKey, t Tool, at time.Time) Event {
	return Event{Kind: kind, ID: t.ID, Title: t.Name, At: at}
}

func PostEvent(kind common.BindingKey, p Post, at time.Time) Event {
	return Event{Kind: kind, ID: p.ID, Title: p.Title, Slug: p.Slug, Author: p.Author, At: at}
}

// Publish sends the event to the catalog exchange, routed by its kind.
func Publish(ctx context.Context, mb common.MessageProducer, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return mb.Publish(ctx, body, ev.Kind, common.CatalogExchange)
}
