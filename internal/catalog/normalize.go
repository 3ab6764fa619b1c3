package catalog

import (
	"fmt"
	"sort"

	"github.com/akoval/topspin/internal/models"
)

// Normalize produces the final ranked album list from a parsed catalog snapshot.
//
// Only listened albums participate; everything else is excluded from the result
// and therefore from write-back. The returned list is sorted ascending by rank,
// every album carries a unique integer rating, and Label holds the zero-padded
// rendering at a uniform width. An empty eligible set yields an empty list.
func Normalize(albums []models.Album, policy Policy) []models.Album {
	var ranked, unranked []models.Album
	for _, album := range albums {
		if !album.IsListened() {
			continue
		}
		if album.IsRated() {
			ranked = append(ranked, album)
		} else {
			unranked = append(unranked, album)
		}
	}

	ranked = ensureUniqueRatings(ranked)

	highest := 0
	if len(ranked) > 0 {
		// ranked is sorted ascending, so the last rating is the maximum.
		highest = ratingOf(ranked[len(ranked)-1])
	}
	assignDefaultRatings(unranked, highest+1)

	final := append(ranked, unranked...)
	sort.SliceStable(final, func(i, j int) bool {
		return ratingOf(final[i]) < ratingOf(final[j])
	})

	if len(final) == 0 {
		return final
	}

	if policy == PolicyCompact {
		compactRatings(final)
	}

	width := labelWidth(ratingOf(final[len(final)-1]), len(final))
	for i := range final {
		final[i].Label = fmt.Sprintf("%0*d", width, ratingOf(final[i]))
	}

	return final
}

// ensureUniqueRatings sorts the rated albums ascending and repairs collisions.
//
// Walking left to right, an album whose rating does not exceed the last used
// value is bumped to lastUsed+1; all others keep their original rating. The
// result is strictly increasing while disturbing as few values as possible,
// and relative order among equal ratings is preserved.
func ensureUniqueRatings(ranked []models.Album) []models.Album {
	if len(ranked) == 0 {
		return ranked
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ratingOf(ranked[i]) < ratingOf(ranked[j])
	})

	lastUsed := ratingOf(ranked[0])
	for i := 1; i < len(ranked); i++ {
		current := ratingOf(ranked[i])
		if current <= lastUsed {
			lastUsed++
			bumped := lastUsed
			ranked[i].Rating = &bumped
		} else {
			lastUsed = current
		}
	}

	return ranked
}

// assignDefaultRatings gives unranked albums sequential ratings starting at
// start, in the order they were encountered in the fetch.
func assignDefaultRatings(unranked []models.Album, start int) {
	for i := range unranked {
		rating := start + i
		unranked[i].Rating = &rating
	}
}

// compactRatings renumbers an already-sorted list densely from 1.
func compactRatings(albums []models.Album) {
	for i := range albums {
		rating := i + 1
		albums[i].Rating = &rating
	}
}

// labelWidth picks the zero-pad width from the data so that label order matches
// numeric order: three digits once either the maximum rating or the album count
// passes 99, two otherwise.
func labelWidth(maxRating, count int) int {
	if maxRating > 99 || count > 99 {
		return 3
	}
	return 2
}

// ratingOf reads an album's rating, treating unranked as 0.
func ratingOf(album models.Album) int {
	if album.Rating == nil {
		return 0
	}
	return *album.Rating
}
