package feed

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
)

// WriteText writes v as plain text, one line per row.
func WriteText(w io.Writer, v View) error {
	if v.ShowFilters {
		var parts []string
		for _, b := range v.Filters {
			if b.Active {
				parts = append(parts, "["+string(b.Filter)+"]")
			} else {
				parts = append(parts, string(b.Filter))
			}
		}
		if _, err := fmt.Fprintf(w, "Filters: %s\n", strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	if len(v.Rows) == 0 {
		_, err := fmt.Fprintln(w, v.Empty)
		return err
	}
	for _, r := range v.Rows {
		if _, err := fmt.Fprintln(w, FormatRow(r)); err != nil {
			return err
		}
	}
	return nil
}

// FormatRow renders a row as a single line.
func FormatRow(r Row) string {
	var b strings.Builder
	b.WriteString(r.Icon.Glyph)
	b.WriteString(" ")
	b.WriteString(r.Label)
	if r.Price != "" {
		b.WriteString(" ")
		b.WriteString(r.Price)
	}
	fmt.Fprintf(&b, "  From %s to %s  %s", r.From.Short, r.To.Short, r.Age)
	return b.String()
}

var page = template.Must(template.New("activity").Funcs(template.FuncMap{
	"filterLink": filterLink,
	"toggleLink": toggleLink,
}).Parse(`<section class="activity">
<header>
<h2>Activity</h2>
<a class="toggle{{if .View.ShowFilters}} active{{end}}" href="{{toggleLink .Base .View}}" aria-label="Toggle filters">Filter</a>
{{- if .View.ShowFilters}}
<nav class="filters">
{{- range .View.Filters}}
<a class="filter{{if .Active}} active{{end}}" href="{{filterLink $.Base .Filter}}">{{.Filter}}</a>
{{- end}}
</nav>
{{- end}}
</header>
{{- if .View.Rows}}
<ul class="events">
{{- range .View.Rows}}
<li class="event {{.Type}}">
<span class="icon {{.Icon.Name}} text-{{.Icon.Color}}"></span>
<p class="title">{{.Label}}{{if .Price}} <span class="price">{{.Price}}</span>{{end}}</p>
<p class="parties">From <a href="{{.From.URL}}" target="_blank" rel="noopener noreferrer">{{.From.Short}}</a> to <a href="{{.To.URL}}" target="_blank" rel="noopener noreferrer">{{.To.Short}}</a></p>
<p class="age">{{.Age}}</p>
</li>
{{- end}}
</ul>
{{- else}}
<p class="empty">{{.View.Empty}}</p>
{{- end}}
</section>
`))

// WriteHTML writes v as an HTML fragment. Filter controls are links back to
// base carrying the type and filters query parameters.
func WriteHTML(w io.Writer, v View, base string) error {
	return page.Execute(w, struct {
		View View
		Base string
	}{View: v, Base: base})
}

func filterLink(base string, f Filter) string {
	q := url.Values{}
	q.Set("format", "html")
	q.Set("filters", "1")
	q.Set("type", strings.ToLower(string(f)))
	return base + "?" + q.Encode()
}

func toggleLink(base string, v View) string {
	q := url.Values{}
	q.Set("format", "html")
	if !v.ShowFilters {
		q.Set("filters", "1")
	}
	q.Set("type", strings.ToLower(string(v.Selected)))
	return base + "?" + q.Encode()
}
