package opensea

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/xyths/nft-dashboard/nft"
)

const (
	eventPageLimit = 50
	maxEventPages  = 20
)

// CollectionByContract returns the collection of a contract with its stats.
// Request like this:
//
//	curl --request GET \
//	    --url 'https://api.opensea.io/api/v2/chain/ethereum/contract/0xbc4c...' \
//	    --header 'x-api-key: ...'
//
// followed by /api/v2/collections/{slug} and /api/v2/collections/{slug}/stats.
func (c *Client) CollectionByContract(ctx context.Context, address string) (nft.Collection, error) {
	slug, err := c.ContractSlug(ctx, address)
	if err != nil {
		return nft.Collection{}, err
	}
	var coll ResponseCollection
	if err := c.getJSON(ctx, "collection", "/api/v2/collections/"+url.PathEscape(slug), nil, &coll); err != nil {
		return nft.Collection{}, err
	}
	var stats ResponseStats
	if err := c.getJSON(ctx, "stats", "/api/v2/collections/"+url.PathEscape(slug)+"/stats", nil, &stats); err != nil {
		return nft.Collection{}, err
	}
	return toCollection(coll, stats), nil
}

// EventsByContract returns the sale, transfer, mint and list events of a
// contract that occurred in [after, before), newest first.
func (c *Client) EventsByContract(ctx context.Context, address string, after, before time.Time) ([]nft.Event, error) {
	slug, err := c.ContractSlug(ctx, address)
	if err != nil {
		return nil, err
	}
	var events []nft.Event
	next := ""
	for page := 0; page < maxEventPages; page++ {
		q := url.Values{}
		q.Set("after", fmt.Sprint(after.Unix()))
		q.Set("before", fmt.Sprint(before.Unix()))
		q.Set("limit", fmt.Sprint(eventPageLimit))
		if next != "" {
			q.Set("next", next)
		}
		var resp ResponseEvent
		if err := c.getJSON(ctx, "events", "/api/v2/events/collection/"+url.PathEscape(slug), q, &resp); err != nil {
			return events, err
		}
		for _, ae := range resp.AssetEvents {
			if e, ok := toEvent(ae, address); ok {
				events = append(events, e)
			}
		}
		c.Sugar.Debugf("collection %s page %d events size = %d", slug, page, len(resp.AssetEvents))
		if resp.Next == "" {
			return events, nil
		}
		next = resp.Next
	}
	c.Sugar.Infof("collection %s: stop after %d pages", slug, maxEventPages)
	return events, nil
}
