package models

// DefaultAnnouncementAuthor signs every announcement
const DefaultAnnouncementAuthor = "Faculty Dean"

// Announcement represents a faculty announcement
type Announcement struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Author     string  `json:"author"`
	Time       string  `json:"time"`
	Image      *string `json:"image"`
	Priority   bool    `json:"priority"`
	Faculty    string  `json:"faculty"`
	Department string  `json:"department"`
	Batch      string  `json:"batch"`
}

// Audience returns the faculty/department/batch triple as one label
func (a Announcement) Audience() string {
	return a.Faculty + " → " + a.Department + " → " + a.Batch
}
