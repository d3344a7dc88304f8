package models

// DefaultClubLeader is assigned to clubs created from an approved request
const DefaultClubLeader = "—"

// Club represents a student club
type Club struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Leader  string  `json:"leader"`
	Members int     `json:"members"`
	About   string  `json:"about"`
	Image   *string `json:"image"`

	// SourceRequestID links a club to the queue entry it was approved from.
	SourceRequestID int64 `json:"sourceRequestId,omitempty"`
}

// QueueEntry is a pending request to open a club
type QueueEntry struct {
	ID      int64  `json:"id"`
	Student string `json:"student"`
	Batch   string `json:"batch"`
	Request string `json:"request"`
}

// ClubFromRequest converts an approved queue entry into a new club.
// The id is assigned by the repository.
func ClubFromRequest(entry QueueEntry) Club {
	return Club{
		Name:            entry.Request,
		Leader:          DefaultClubLeader,
		Members:         0,
		About:           "",
		Image:           nil,
		SourceRequestID: entry.ID,
	}
}
