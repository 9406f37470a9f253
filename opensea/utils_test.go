package opensea

import (
	"encoding/json"
	"testing"

	"github.com/xyths/nft-dashboard/nft"
)

func TestToEther(t *testing.T) {
	tests := []struct {
		p    *Payment
		want string
	}{
		{&Payment{Quantity: "30300000000000000000", Decimals: 18, Symbol: "ETH"}, "30.3"},
		{&Payment{Quantity: "1000000", Decimals: 6, Symbol: "USDC"}, "1"},
		{&Payment{Quantity: "12", Decimals: 0}, "12"},
		{&Payment{Quantity: "n/a", Decimals: 18}, "n/a"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := toEther(tt.p); got != tt.want {
			t.Fatalf("toEther(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestToEvent(t *testing.T) {
	raw := `{"asset_events":[
		{"event_type":"sale","event_timestamp":1700000000,"seller":"0xSeller","buyer":"0xBuyer","payment":{"quantity":"1500000000000000000","decimals":18,"symbol":"ETH"},"nft":{"identifier":"42","collection":"apes"}},
		{"event_type":"transfer","event_timestamp":1700000001,"from_address":"0x0000000000000000000000000000000000000000","to_address":"0xMinter"},
		{"event_type":"transfer","event_timestamp":1700000002,"from_address":"0xA","to_address":"0xB"},
		{"event_type":"order","order_type":"listing","event_timestamp":1700000003,"maker":"0xMaker","payment":{"quantity":"2000000000000000000","decimals":18}},
		{"event_type":"order","order_type":"item_offer","event_timestamp":1700000004,"maker":"0xBidder"},
		{"event_type":"cancel","event_timestamp":1700000005}
	]}`
	var resp ResponseEvent
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatal(err)
	}
	var got []nft.Event
	for _, ae := range resp.AssetEvents {
		if e, ok := toEvent(ae, "0xABC"); ok {
			got = append(got, e)
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 mapped events, got %d", len(got))
	}
	want := []nft.EventType{nft.EventSale, nft.EventMint, nft.EventTransfer, nft.EventList}
	for i, e := range got {
		if e.Type != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, e.Type, want[i])
		}
		if e.Contract != "0xabc" {
			t.Fatalf("expected lower-cased contract, got %s", e.Contract)
		}
	}
	if got[0].Price != "1.5" || got[0].From != "0xSeller" || got[0].To != "0xBuyer" || got[0].TokenId != "42" {
		t.Fatalf("unexpected sale %+v", got[0])
	}
	if got[0].Timestamp != "2023-11-14T22:13:20Z" {
		t.Fatalf("unexpected timestamp %s", got[0].Timestamp)
	}
	if got[1].Price != "" || got[2].Price != "" {
		t.Fatal("mint and transfer carry no price")
	}
	if got[3].Price != "2" || got[3].From != "0xMaker" {
		t.Fatalf("unexpected listing %+v", got[3])
	}
}

func TestToCollection(t *testing.T) {
	c := toCollection(
		ResponseCollection{Collection: "apes", Name: "Apes", OpenseaUrl: "https://opensea.io/collection/apes", SafelistStatus: "verified", TotalSupply: 10},
		ResponseStats{Total: RawStat{Volume: 12.5, FloorPrice: 0.2, NumOwners: 7, MarketCap: 2}},
	)
	if c.Slug != "apes" || c.ExternalUrl != "https://opensea.io/collection/apes" || c.SafelistStatus != nft.SafelistVerified {
		t.Fatalf("unexpected collection %+v", c)
	}
	if c.Stats.TotalSupply != 10 || c.Stats.TotalVolume != 12.5 || c.Stats.NumOwners != 7 {
		t.Fatalf("unexpected stats %+v", c.Stats)
	}
}
