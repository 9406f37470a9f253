package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/xyths/nft-dashboard/nft"
)

type Filter string

const (
	All      Filter = "All"
	Sale     Filter = "Sale"
	Transfer Filter = "Transfer"
	Mint     Filter = "Mint"
	List     Filter = "List"
)

// Filters is the fixed filter row, in display order.
var Filters = []Filter{All, Sale, Transfer, Mint, List}

// ParseFilter matches s against Filters, ignoring case. Empty s is All.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return All, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return All, fmt.Errorf("unknown event type %q", s)
}

// Apply keeps the events matching f. All returns events unchanged.
func Apply(events []nft.Event, f Filter) []nft.Event {
	if f == All {
		return events
	}
	out := make([]nft.Event, 0, len(events))
	for _, e := range events {
		if e.Is(string(f)) {
			out = append(out, e)
		}
	}
	return out
}

type Icon struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Glyph string `json:"-"`
}

var (
	iconSale     = Icon{Name: "arrow-up-right", Color: "green", Glyph: "↗"}
	iconTransfer = Icon{Name: "arrow-down-right", Color: "blue", Glyph: "↘"}
	iconMint     = Icon{Name: "sparkles", Color: "purple", Glyph: "✦"}
	iconList     = Icon{Name: "tag", Color: "yellow", Glyph: "#"}
	iconDefault  = Icon{Name: "activity", Color: "gray", Glyph: "•"}
)

func IconOf(t nft.EventType) Icon {
	switch t {
	case nft.EventSale:
		return iconSale
	case nft.EventTransfer:
		return iconTransfer
	case nft.EventMint:
		return iconMint
	case nft.EventList:
		return iconList
	default:
		return iconDefault
	}
}

// Row is one rendered event.
type Row struct {
	Type  nft.EventType `json:"type"`
	Label string        `json:"label"`
	Icon  Icon          `json:"icon"`
	Price string        `json:"price,omitempty"` // "<price> ETH", empty without price
	From  Address       `json:"from"`
	To    Address       `json:"to"`
	Age   string        `json:"age"`
}

func NewRow(e nft.Event, now time.Time) Row {
	r := Row{
		Type:  e.Type,
		Label: capitalize(string(e.Type)),
		Icon:  IconOf(e.Type),
		From:  NewAddress(e.From),
		To:    NewAddress(e.To),
		Age:   TimeAgo(e.Timestamp, now),
	}
	if e.Price != "" {
		r.Price = e.Price + " ETH"
	}
	return r
}

type FilterButton struct {
	Filter Filter `json:"filter"`
	Active bool   `json:"active"`
}

// View is a snapshot of a Feed ready for a writer.
type View struct {
	Selected    Filter         `json:"selected"`
	ShowFilters bool           `json:"showFilters"`
	Filters     []FilterButton `json:"filters,omitempty"` // only when ShowFilters
	Rows        []Row          `json:"events"`
	Empty       string         `json:"empty,omitempty"` // set when Rows is empty
}

// Feed holds the local state of one activity panel: the selected filter and
// whether the filter row is visible. Both start at their defaults.
type Feed struct {
	events      []nft.Event
	selected    Filter
	showFilters bool
}

func New(events []nft.Event) *Feed {
	return &Feed{events: events, selected: All}
}

func (f *Feed) Select(filter Filter) {
	f.selected = filter
}

func (f *Feed) Selected() Filter {
	return f.selected
}

func (f *Feed) ToggleFilters() {
	f.showFilters = !f.showFilters
}

func (f *Feed) FiltersVisible() bool {
	return f.showFilters
}

func (f *Feed) Events() []nft.Event {
	return Apply(f.events, f.selected)
}

func (f *Feed) View(now time.Time) View {
	v := View{Selected: f.selected, ShowFilters: f.showFilters, Rows: []Row{}}
	if f.showFilters {
		for _, filter := range Filters {
			v.Filters = append(v.Filters, FilterButton{Filter: filter, Active: filter == f.selected})
		}
	}
	for _, e := range f.Events() {
		v.Rows = append(v.Rows, NewRow(e, now))
	}
	if len(v.Rows) == 0 {
		v.Empty = fmt.Sprintf("No %s events found", strings.ToLower(string(f.selected)))
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
