// Package views derives read-only projections of collection snapshots.
// Nothing here touches storage.
package views

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/yigit/unihub/internal/app/models"
)

// Selector picks one searchable string field of an item
type Selector[T any] func(T) string

// Filter keeps the items where any selected field contains query,
// ignoring case. Order is preserved and an empty query returns items as is.
func Filter[T any](items []T, query string, selectors ...Selector[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, sel := range selectors {
			if strings.Contains(strings.ToLower(sel(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FilterClubs searches name, about and member count
func FilterClubs(clubs []models.Club, query string) []models.Club {
	return Filter(clubs, query,
		func(c models.Club) string { return c.Name },
		func(c models.Club) string { return c.About },
		func(c models.Club) string { return strconv.Itoa(c.Members) },
	)
}

// FilterQueue searches student, batch and requested club
func FilterQueue(entries []models.QueueEntry, query string) []models.QueueEntry {
	return Filter(entries, query,
		func(q models.QueueEntry) string { return q.Student },
		func(q models.QueueEntry) string { return q.Batch },
		func(q models.QueueEntry) string { return q.Request },
	)
}

// FilterAnnouncements searches title and content
func FilterAnnouncements(anns []models.Announcement, query string) []models.Announcement {
	return Filter(anns, query,
		func(a models.Announcement) string { return a.Title },
		func(a models.Announcement) string { return a.Content },
	)
}

// FilterPosts searches title and body
func FilterPosts(posts []models.Post, query string) []models.Post {
	return Filter(posts, query,
		func(p models.Post) string { return p.Title },
		func(p models.Post) string { return p.Body },
	)
}

// FilterChannels matches name or type, also when whitespace differs,
// so "batch14" finds "Batch 14".
func FilterChannels(channels []models.Channel, query string) []models.Channel {
	if strings.TrimSpace(query) == "" {
		return channels
	}

	compact := CompactName(query)
	out := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		plain := Filter([]models.Channel{ch}, query,
			func(c models.Channel) string { return c.Name },
			func(c models.Channel) string { return c.Type },
		)
		if len(plain) > 0 ||
			strings.Contains(CompactName(ch.Name), compact) ||
			strings.Contains(CompactName(ch.Type), compact) {
			out = append(out, ch)
		}
	}
	return out
}

// CompactName lowercases s and drops all whitespace. Two channel names
// collide when their compact forms are equal.
func CompactName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// BatchNumber reads the digits of a channel name as one number, so
// "Batch 15" is 15. Names without digits count as 0.
func BatchNumber(name string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, name)

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// SortChannelsByBatch returns a copy ordered by batch number, highest first.
// Ties keep their input order.
func SortChannelsByBatch(channels []models.Channel) []models.Channel {
	out := make([]models.Channel, len(channels))
	copy(out, channels)
	sort.SliceStable(out, func(i, j int) bool {
		return BatchNumber(out[i].Name) > BatchNumber(out[j].Name)
	})
	return out
}
