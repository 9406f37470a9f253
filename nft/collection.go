package nft

// SafelistStatus is the OpenSea verification state of a collection.
type SafelistStatus string

const (
	SafelistNotRequested        SafelistStatus = "not_requested"
	SafelistRequested           SafelistStatus = "requested"
	SafelistApproved            SafelistStatus = "approved"
	SafelistVerified            SafelistStatus = "verified"
	SafelistDisabledTopTrending SafelistStatus = "disabled_top_trending"
)

// Collection is one collection on OpenSea, as served to the dashboard.
type Collection struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ImageUrl        string          `json:"image_url"`
	BannerImageUrl  string          `json:"banner_image_url"`
	ExternalUrl     string          `json:"external_url"`
	Slug            string          `json:"slug"`
	DiscordUrl      string          `json:"discord_url"`
	TwitterUsername string          `json:"twitter_username"`
	SafelistStatus  SafelistStatus  `json:"safelist_status"`
	IsNsfw          bool            `json:"is_nsfw"`
	Stats           CollectionStats `json:"stats"`
}

type CollectionStats struct {
	TotalSupply   int64   `json:"total_supply"`
	TotalListings int64   `json:"total_listings"`
	TotalVolume   float64 `json:"total_volume"`
	FloorPrice    float64 `json:"floor_price"`
	NumOwners     int64   `json:"num_owners"`
	MarketCap     float64 `json:"market_cap"`
}

// CollectionResponse is the body of the collection endpoint.
type CollectionResponse struct {
	Collection Collection `json:"collection"`
}
