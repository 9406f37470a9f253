package opensea

import "encoding/json"

// ResponseContract is the response of `/api/v2/chain/{chain}/contract/{address}`.
type ResponseContract struct {
	Address          string `json:"address"`
	Chain            string `json:"chain"`
	Collection       string `json:"collection"` // collection slug
	Name             string `json:"name"`
	ContractStandard string `json:"contract_standard"`
	TotalSupply      *int64 `json:"total_supply"`
}

// ResponseCollection is the response of `/api/v2/collections/{slug}`.
type ResponseCollection struct {
	Collection      string `json:"collection"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImageUrl        string `json:"image_url"`
	BannerImageUrl  string `json:"banner_image_url"`
	Owner           string `json:"owner"`
	SafelistStatus  string `json:"safelist_status"`
	Category        string `json:"category"`
	IsDisabled      bool   `json:"is_disabled"`
	IsNsfw          bool   `json:"is_nsfw"`
	OpenseaUrl      string `json:"opensea_url"`
	ProjectUrl      string `json:"project_url"`
	DiscordUrl      string `json:"discord_url"`
	TwitterUsername string `json:"twitter_username"`
	TotalSupply     int64  `json:"total_supply"`
}

// ResponseStats is the response of `/api/v2/collections/{slug}/stats`.
type ResponseStats struct {
	Total RawStat `json:"total"`
}

type RawStat struct {
	Volume       float64 `json:"volume"`
	Sales        float64 `json:"sales"`
	AveragePrice float64 `json:"average_price"`
	NumOwners    int64   `json:"num_owners"`
	MarketCap    float64 `json:"market_cap"`
	FloorPrice   float64 `json:"floor_price"`
	// listings are not part of the public stats object on every deployment
	Listings int64 `json:"total_listings"`
}

// ResponseEvent is the response of `/api/v2/events/collection/{slug}`.
type ResponseEvent struct {
	AssetEvents []AssetEvent `json:"asset_events"`
	Next        string       `json:"next"`
}

// AssetEvent is one entry of ResponseEvent.
//   sale:      Seller -> Buyer, Payment is the sale price
//   transfer:  FromAddress -> ToAddress, mint when FromAddress is the zero address
//   order:     OrderType "listing" is a List by Maker, offers are ignored
type AssetEvent struct {
	EventType      string   `json:"event_type"`
	OrderType      string   `json:"order_type"`
	EventTimestamp int64    `json:"event_timestamp"`
	Transaction    string   `json:"transaction"`
	Seller         string   `json:"seller"`
	Buyer          string   `json:"buyer"`
	FromAddress    string   `json:"from_address"`
	ToAddress      string   `json:"to_address"`
	Maker          string   `json:"maker"`
	Taker          string   `json:"taker"`
	Payment        *Payment `json:"payment"`
	Nft            *Asset   `json:"nft"`
	Asset          *Asset   `json:"asset"` // set on order events
}

const (
	EventTypeSale     = "sale"
	EventTypeTransfer = "transfer"
	EventTypeOrder    = "order"

	OrderTypeListing = "listing"

	zeroAddress = "0x0000000000000000000000000000000000000000"
)

type Payment struct {
	Quantity     json.Number `json:"quantity"`
	TokenAddress string      `json:"token_address"`
	Decimals     int32       `json:"decimals"`
	Symbol       string      `json:"symbol"`
}

type Asset struct {
	Identifier string `json:"identifier"`
	Collection string `json:"collection"`
	Contract   string `json:"contract"`
	Name       string `json:"name"`
	ImageUrl   string `json:"image_url"`
}
