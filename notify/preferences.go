package notify

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/xyths/nft-dashboard/nft"
)

// Subscription selects the events one chat or channel receives.
//  1. empty Projects means every tracked contract;
//  2. empty Types means every event type.
type Subscription struct {
	ChatId   int64    `json:"chatId"`  // telegram
	Channel  string   `json:"channel"` // discord
	Projects []string `json:"projects"`
	Types    []string `json:"types"`
	Link     bool     `json:"link"` // append marketplace links
}

func (s Subscription) Match(e nft.Event) bool {
	if len(s.Projects) > 0 {
		found := false
		contract := common.HexToAddress(e.Contract)
		for _, p := range s.Projects {
			if common.HexToAddress(p) == contract {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(s.Types) == 0 {
		return true
	}
	for _, t := range s.Types {
		if e.Is(t) {
			return true
		}
	}
	return false
}

// Matching returns the events s receives, in input order.
func (s Subscription) Matching(events []nft.Event) []nft.Event {
	var out []nft.Event
	for _, e := range events {
		if s.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
