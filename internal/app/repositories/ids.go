package repositories

import (
	"strconv"
	"time"
)

// IDGenerator derives a fresh id from the ids already present in a collection
type IDGenerator[ID comparable] func(existing []ID) ID

// SequentialIDs yields max(existing)+1, or 1 for an empty collection.
func SequentialIDs(existing []int64) int64 {
	var highest int64
	for _, id := range existing {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// TimestampIDs yields the clock's unix milliseconds as a decimal string,
// bumped by one until it does not collide with an existing id.
func TimestampIDs(clock func() time.Time) IDGenerator[string] {
	if clock == nil {
		clock = time.Now
	}
	return func(existing []string) string {
		taken := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			taken[id] = struct{}{}
		}

		candidate := clock().UnixMilli()
		for {
			id := strconv.FormatInt(candidate, 10)
			if _, ok := taken[id]; !ok {
				return id
			}
			candidate++
		}
	}
}
