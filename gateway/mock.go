package gateway

import (
	"encoding/json"
	"strings"

	"github.com/xyths/nft-dashboard/nft"
)

// ReferenceContract is the Bored Ape Yacht Club contract, the one address
// with a dedicated fallback record.
const ReferenceContract = "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"

var referenceCollection = nft.Collection{
	Name:            "Bored Ape Yacht Club",
	Description:     "The Bored Ape Yacht Club is a collection of 10,000 unique Bored Ape NFTs.",
	ImageUrl:        "https://i.seadn.io/gae/Ju9CkWtV-1Okvf45wo8UctR-M9He2PjILP0oOvxE89AyiPPGtrR3gysu1Zgy0hjd2xKIgjJJtWIc0ybj4Vd7wv8t3pxDGHoJBzDB?auto=format&dpr=1&w=1000",
	BannerImageUrl:  "https://i.seadn.io/gae/i5dYZRkVCUK97bfprQ3WXyrT9BnLSZtVKGJlKQ919uaUB0sxbngVCioaiyu9r6snqfi2aaTyIvv6DHm4m2R3y7hMajbsv14pSZK8aOE?auto=format&dpr=1&w=3000",
	ExternalUrl:     "https://boredapeyachtclub.com",
	Slug:            "boredapeyachtclub",
	DiscordUrl:      "https://discord.gg/3P5K3dzgdB",
	TwitterUsername: "BoredApeYC",
	SafelistStatus:  nft.SafelistVerified,
	IsNsfw:          false,
	Stats: nft.CollectionStats{
		TotalSupply:   10000,
		TotalListings: 435,
		TotalVolume:   848968.1,
		FloorPrice:    30.3,
		NumOwners:     6345,
		MarketCap:     303000,
	},
}

var placeholderCollection = nft.Collection{
	Name:            "Mock Collection",
	Description:     "This is a mock collection for testing purposes.",
	ImageUrl:        "/images/placeholder-logo.png",
	BannerImageUrl:  "/images/placeholder-banner.png",
	ExternalUrl:     "#",
	Slug:            "mock-collection",
	DiscordUrl:      "#",
	TwitterUsername: "mock",
	SafelistStatus:  nft.SafelistVerified,
	IsNsfw:          false,
	Stats: nft.CollectionStats{
		TotalSupply:   10000,
		TotalListings: 100,
		TotalVolume:   1000,
		FloorPrice:    0.1,
		NumOwners:     1000,
		MarketCap:     1000,
	},
}

// MockCollection returns the fallback record for address.
func MockCollection(address string) nft.Collection {
	if Normalize(address) == ReferenceContract {
		return referenceCollection
	}
	return placeholderCollection
}

func encode(c nft.Collection) ([]byte, error) {
	return json.Marshal(nft.CollectionResponse{Collection: c})
}

// Normalize lower-cases a contract address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
