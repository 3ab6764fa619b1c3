package catalog

import (
	"sort"
	"strconv"

	"github.com/akoval/topspin/internal/models"
	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
)

// Fallback values for missing or malformed page fields.
const (
	UntitledName  = "Untitled"
	UnknownArtist = "Unknown"
	UnknownStatus = "Unknown"
)

// ParsePage maps one raw database page to an Album. It never fails: any absent
// or malformed field falls back to its default instead of producing an error.
func ParsePage(page services.Page, fields shared.FieldsConfig) models.Album {
	album := models.Album{
		PageID:   page.ID,
		Name:     UntitledName,
		Artist:   UnknownArtist,
		Status:   UnknownStatus,
		HasCover: page.Cover != nil,
		HasIcon:  page.Icon != nil,
	}

	if prop, ok := page.Properties[fields.Album]; ok && len(prop.Title) > 0 {
		if name := titleText(prop.Title[0]); name != "" {
			album.Name = name
		}
	}

	if prop, ok := page.Properties[fields.Rank]; ok && prop.Select != nil {
		if rating, ok := parseRank(prop.Select.Name); ok {
			album.Rating = &rating
		}
	}

	if prop, ok := page.Properties[fields.Artist]; ok && prop.Select != nil && prop.Select.Name != "" {
		album.Artist = prop.Select.Name
	}

	if prop, ok := page.Properties[fields.Status]; ok && prop.Status != nil && prop.Status.Name != "" {
		album.Status = prop.Status.Name
	}

	return album
}

// ParsePages maps a fetched page snapshot to albums, preserving fetch order.
func ParsePages(pages []services.Page, fields shared.FieldsConfig) []models.Album {
	albums := make([]models.Album, 0, len(pages))
	for _, page := range pages {
		albums = append(albums, ParsePage(page, fields))
	}
	return albums
}

// UsedRankLabels collects the distinct rank select labels currently assigned
// across the page snapshot, sorted for a stable rebuild order. Non-numeric
// labels count too: a label in use is a label to keep, whatever it says.
func UsedRankLabels(pages []services.Page, fields shared.FieldsConfig) []string {
	seen := map[string]struct{}{}
	var labels []string
	for _, page := range pages {
		prop, ok := page.Properties[fields.Rank]
		if !ok || prop.Select == nil || prop.Select.Name == "" {
			continue
		}
		if _, dup := seen[prop.Select.Name]; dup {
			continue
		}
		seen[prop.Select.Name] = struct{}{}
		labels = append(labels, prop.Select.Name)
	}
	sort.Strings(labels)
	return labels
}

// titleText extracts the text content of a title segment, preferring the nested
// text payload over the rendered plain text.
func titleText(segment services.RichText) string {
	if segment.Text != nil && segment.Text.Content != "" {
		return segment.Text.Content
	}
	return segment.PlainText
}

// parseRank interprets a select label as a rank. Only all-decimal-digit labels
// count; anything else ("abc", "7a", "-3", "") leaves the album unranked.
func parseRank(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return 0, false
		}
	}

	rating, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return rating, true
}
