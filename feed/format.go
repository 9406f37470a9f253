package feed

import (
	"fmt"
	"time"
)

// AddressBaseURL is the marketplace page prefix for an account.
const AddressBaseURL = "https://opensea.io/"

type Address struct {
	Full  string `json:"full"`
	Short string `json:"short"`
	URL   string `json:"url"`
}

func NewAddress(addr string) Address {
	return Address{Full: addr, Short: ShortAddress(addr), URL: AddressBaseURL + addr}
}

// ShortAddress keeps the first 6 and the last 4 characters, case preserved.
// Addresses of 10 characters or less are returned unchanged.
func ShortAddress(addr string) string {
	r := []rune(addr)
	if len(r) <= 10 {
		return addr
	}
	return string(r[:6]) + "..." + string(r[len(r)-4:])
}

// TimeAgo formats the age of an ISO 8601 timestamp relative to now.
// Months are 30 days and years are 12 months; all divisions truncate.
func TimeAgo(timestamp string, now time.Time) string {
	t, ok := ParseTimestamp(timestamp)
	if !ok {
		return "unknown"
	}
	return Since(t, now)
}

// OpenSea sometimes omits the zone, e.g. "2021-08-28T09:44:43.664713"; those are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func Since(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	days := hours / 24
	if days < 30 {
		return fmt.Sprintf("%dd ago", days)
	}
	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%dmo ago", months)
	}
	return fmt.Sprintf("%dy ago", months/12)
}
