package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
)

// Result reports which collections were seeded
type Result struct {
	Clubs         bool
	Queue         bool
	Announcements bool
}

// Any reports whether anything was written
func (r Result) Any() bool {
	return r.Clubs || r.Queue || r.Announcements
}

// DefaultClubs are written when the club list is empty
func DefaultClubs() []models.Club {
	return []models.Club{
		{ID: 1, Name: "Software Development", Leader: "Mustafa", Members: 200, About: "Build modern websites"},
		{ID: 2, Name: "AI", Leader: "Ali", Members: 120, About: "AI & ML projects"},
		{ID: 3, Name: "Full stack", Leader: "Ali", Members: 200, About: "React/Node/Postgres"},
		{ID: 4, Name: "Multimedia", Leader: "Epyan", Members: 78, About: "Design & Video"},
	}
}

// DefaultQueue is written when the approval queue is empty
func DefaultQueue() []models.QueueEntry {
	return []models.QueueEntry{
		{ID: 101, Student: "Dacar", Batch: "B13", Request: "AI"},
		{ID: 102, Student: "Abdi", Batch: "B14", Request: "Software dev"},
		{ID: 103, Student: "Ahemd", Batch: "B15", Request: "Full stack"},
		{ID: 104, Student: "Abdi", Batch: "B16", Request: "Multimedia"},
	}
}

func imageURL(name string) *string {
	u := "https://codia-f2c.s3.us-west-1.amazonaws.com/image/2025-09-30/" + name
	return &u
}

// DefaultAnnouncements are written when no announcement exists. Their
// times are relative to now.
func DefaultAnnouncements(now time.Time) []models.Announcement {
	at := func(ago time.Duration) string {
		return now.Add(-ago).UTC().Format(time.RFC3339)
	}
	return []models.Announcement{
		{
			ID: 1, Title: "Guest Lecture: Innovation in Technology",
			Content: "Join us for an inspiring guest lecture by industry leader Dr. Amanda Foster on the latest innovations in technology and their impact on society.",
			Author:  models.DefaultAnnouncementAuthor, Time: at(72 * time.Hour), Image: imageURL("ss2PYi1B0O.png"),
			Faculty: "Computer Science", Department: "Computer Science", Batch: "Batch 14",
		},
		{
			ID: 2, Title: "Important: Midterm Exam Schedule Update",
			Content: "The midterm examination schedule has been revised due to recent changes. All students are required to check their updated exam dates and venues.",
			Author:  models.DefaultAnnouncementAuthor, Time: at(2 * time.Hour), Image: imageURL("kS9XrAWqoZ.png"), Priority: true,
			Faculty: "Engineering", Department: "Electrical Engineering", Batch: "Batch 13",
		},
		{
			ID: 3, Title: "New Research Opportunities Available",
			Content: "Research positions are now open for undergraduate students interested in AI and Machine Learning projects.",
			Author:  models.DefaultAnnouncementAuthor, Time: at(5 * time.Hour),
			Faculty: "Computer Science", Department: "Software Engineering", Batch: "Batch 15",
		},
		{
			ID: 4, Title: "Campus Safety Guidelines Update",
			Content: "New safety protocols have been implemented across all campus facilities. Please review the updated guidelines.",
			Author:  models.DefaultAnnouncementAuthor, Time: at(24 * time.Hour), Image: imageURL("cGOO0o1caT.png"),
			Faculty: "Business", Department: "Business Administration", Batch: "Batch 12",
		},
		{
			ID: 5, Title: "Library Extended Hours During Finals",
			Content: "The university library will be extending its operating hours during the final examination period to support student study needs.",
			Author:  models.DefaultAnnouncementAuthor, Time: at(48 * time.Hour),
			Faculty: "Arts", Department: "English Literature", Batch: "Batch 16",
		},
	}
}

// seedIfEmpty writes defaults when the collection reads back empty. A
// failed read is not treated as empty.
func seedIfEmpty[T any, ID comparable](ctx context.Context, c *repositories.Collection[T, ID], defaults []T, lgr zerolog.Logger) (bool, error) {
	items, err := c.Read(ctx)
	if err != nil {
		lgr.Error().Err(err).Str("key", c.Key()).Msg("Failed to read collection, not seeding")
		return false, err
	}
	if len(items) > 0 {
		lgr.Debug().Str("key", c.Key()).Int("count", len(items)).Msg("Collection already has data")
		return false, nil
	}
	if err := c.Write(ctx, defaults); err != nil {
		lgr.Error().Err(err).Str("key", c.Key()).Msg("Failed to seed collection")
		return false, err
	}
	lgr.Info().Str("key", c.Key()).Int("count", len(defaults)).Msg("Seeded collection")
	return true, nil
}

// CreateDefaultData seeds clubs, the approval queue and announcements when
// they are empty. Existing data is never touched.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) (Result, error) {
	var result Result
	var finalErr error

	ok, err := seedIfEmpty(ctx, repos.Clubs, DefaultClubs(), lgr)
	result.Clubs = ok
	finalErr = errors.Join(finalErr, err)

	ok, err = seedIfEmpty(ctx, repos.ClubQueue, DefaultQueue(), lgr)
	result.Queue = ok
	finalErr = errors.Join(finalErr, err)

	ok, err = seedIfEmpty(ctx, repos.Announcements, DefaultAnnouncements(repos.Now()), lgr)
	result.Announcements = ok
	finalErr = errors.Join(finalErr, err)

	return result, finalErr
}
