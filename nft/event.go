package nft

import (
	"strings"
	"time"
)

type EventType string

const (
	EventSale     EventType = "sale"
	EventTransfer EventType = "transfer"
	EventMint     EventType = "mint"
	EventList     EventType = "list"
)

// EventTypes lists the supported variants in display order.
var EventTypes = []EventType{EventSale, EventTransfer, EventMint, EventList}

// Event is one activity entry of an NFT.
// Price is already converted to ETH units for display, empty when the event carries none.
type Event struct {
	Type      EventType `json:"type" bson:"type"`
	Price     string    `json:"price,omitempty" bson:"price,omitempty"`
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	Timestamp string    `json:"timestamp" bson:"timestamp"`

	Contract   string `json:"contract,omitempty" bson:"contract"`
	Collection string `json:"collection,omitempty" bson:"collection"`
	TokenId    string `json:"tokenId,omitempty" bson:"tokenId"`

	CreatedAt time.Time `json:"-" bson:"createdAt"` // anchor of the store TTL index
}

// Is reports whether the event is of type t, ignoring case.
func (e Event) Is(t string) bool {
	return strings.EqualFold(string(e.Type), t)
}
