package ebay

import (
	"fmt"
	"html/template"
	"strings"

	"cratepricer/internal/currency"
	"cratepricer/internal/model"
)

// eBay truncates titles beyond 80 characters.
const maxTitleLen = 80

// BuildTitle assembles a search-friendly listing title from item identity
// and condition, trimmed to the marketplace limit.
func BuildTitle(it *model.Item) string {
	parts := []string{it.DisplayArtist(), "-", it.DisplayTitle()}

	if it.Format != "" {
		parts = append(parts, it.Format)
	}
	parts = append(parts, "Vinyl")
	if it.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", it.Year))
	}
	if it.CatNo != "" {
		parts = append(parts, it.CatNo)
	}
	if it.ConditionVinyl != "" {
		parts = append(parts, string(it.ConditionVinyl))
	}

	title := strings.Join(parts, " ")
	if len(title) <= maxTitleLen {
		return title
	}

	// Drop the tail words until it fits; artist and title always survive.
	for len(title) > maxTitleLen && len(parts) > 3 {
		parts = parts[:len(parts)-1]
		title = strings.Join(parts, " ")
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	return title
}

// BuildTags returns the item-specific tag set for a listing.
func BuildTags(it *model.Item) []string {
	tags := []string{"vinyl", "record"}
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		for _, t := range tags {
			if t == s {
				return
			}
		}
		tags = append(tags, s)
	}

	add(it.Artist)
	add(it.Genre)
	add(it.Style)
	add(it.Format)
	add(it.Label)
	if it.Year > 0 {
		add(fmt.Sprintf("%d", it.Year))
		add(fmt.Sprintf("%ds", it.Year/10*10))
	}
	return tags
}

var descriptionTmpl = template.Must(template.New("description").Parse(`<div class="listing">
  <h1>{{.Artist}} &ndash; {{.Title}}</h1>
  <table>
    {{if .Label}}<tr><td>Label</td><td>{{.Label}}{{if .CatNo}} / {{.CatNo}}{{end}}</td></tr>{{end}}
    {{if .Format}}<tr><td>Format</td><td>{{.Format}}</td></tr>{{end}}
    {{if .Year}}<tr><td>Year</td><td>{{.Year}}</td></tr>{{end}}
    {{if .Genre}}<tr><td>Genre</td><td>{{.Genre}}{{if .Style}} ({{.Style}}){{end}}</td></tr>{{end}}
    <tr><td>Vinyl condition</td><td>{{.ConditionVinyl}}</td></tr>
    <tr><td>Sleeve condition</td><td>{{.ConditionSleeve}}</td></tr>
  </table>
  {{if .Price}}<p class="price">Asking {{.Price}} or best offer.</p>{{end}}
  <p>Graded against the Goldmine standard. Carefully packed in a rigid mailer with corner protection.</p>
</div>`))

type descriptionData struct {
	Artist, Title, Label, CatNo, Format string
	Year                                int
	Genre, Style                        string
	ConditionVinyl, ConditionSleeve     model.Grade
	Price                               string
}

// RenderDescription renders the HTML description for a listing. It consumes
// only the item's already-computed fields and never triggers a revaluation.
func RenderDescription(it *model.Item, region string) (string, error) {
	data := descriptionData{
		Artist:          it.DisplayArtist(),
		Title:           it.DisplayTitle(),
		Label:           it.Label,
		CatNo:           it.CatNo,
		Format:          it.Format,
		Year:            it.Year,
		Genre:           it.Genre,
		Style:           it.Style,
		ConditionVinyl:  gradeOrUnknown(it.ConditionVinyl),
		ConditionSleeve: gradeOrUnknown(it.ConditionSleeve),
	}
	if it.SuggestedListingPrice != nil {
		data.Price = currency.Format(float64(*it.SuggestedListingPrice), region)
	}

	var b strings.Builder
	if err := descriptionTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return b.String(), nil
}

func gradeOrUnknown(g model.Grade) model.Grade {
	if g == "" {
		return "Ungraded"
	}
	return g
}
