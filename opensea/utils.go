package opensea

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xyths/nft-dashboard/nft"
)

func toCollection(c ResponseCollection, s ResponseStats) nft.Collection {
	out := nft.Collection{
		Name:            c.Name,
		Description:     c.Description,
		ImageUrl:        c.ImageUrl,
		BannerImageUrl:  c.BannerImageUrl,
		ExternalUrl:     c.ProjectUrl,
		Slug:            c.Collection,
		DiscordUrl:      c.DiscordUrl,
		TwitterUsername: c.TwitterUsername,
		SafelistStatus:  nft.SafelistStatus(c.SafelistStatus),
		IsNsfw:          c.IsNsfw,
		Stats: nft.CollectionStats{
			TotalSupply:   c.TotalSupply,
			TotalListings: s.Total.Listings,
			TotalVolume:   s.Total.Volume,
			FloorPrice:    s.Total.FloorPrice,
			NumOwners:     s.Total.NumOwners,
			MarketCap:     s.Total.MarketCap,
		},
	}
	if out.ExternalUrl == "" {
		out.ExternalUrl = c.OpenseaUrl
	}
	return out
}

// toEvent maps an OpenSea event onto the feed variants. ok is false for
// event kinds the feed does not show (offers, cancels, redemptions).
func toEvent(ae AssetEvent, contract string) (e nft.Event, ok bool) {
	e = nft.Event{
		Contract:  strings.ToLower(contract),
		Timestamp: time.Unix(ae.EventTimestamp, 0).UTC().Format(time.RFC3339),
		CreatedAt: time.Now(),
	}
	if a := ae.asset(); a != nil {
		e.Collection = a.Collection
		e.TokenId = a.Identifier
	}
	switch ae.EventType {
	case EventTypeSale:
		e.Type = nft.EventSale
		e.From, e.To = ae.Seller, ae.Buyer
		e.Price = toEther(ae.Payment)
	case EventTypeTransfer:
		if strings.EqualFold(ae.FromAddress, zeroAddress) {
			e.Type = nft.EventMint
		} else {
			e.Type = nft.EventTransfer
		}
		// neither mint nor transfer carries a price
		e.From, e.To = ae.FromAddress, ae.ToAddress
	case EventTypeOrder:
		if ae.OrderType != OrderTypeListing {
			return e, false
		}
		e.Type = nft.EventList
		e.From, e.To = ae.Maker, ae.Taker
		e.Price = toEther(ae.Payment)
	default:
		return e, false
	}
	return e, true
}

func (ae AssetEvent) asset() *Asset {
	if ae.Nft != nil {
		return ae.Nft
	}
	return ae.Asset
}

// toEther converts the smallest-unit quantity to a display amount in token
// units, e.g. "30300000000000000000" with 18 decimals to "30.3".
func toEther(p *Payment) string {
	if p == nil || p.Quantity == "" {
		return ""
	}
	d, err := decimal.NewFromString(p.Quantity.String())
	if err != nil {
		return p.Quantity.String()
	}
	return d.Shift(-p.Decimals).String()
}
