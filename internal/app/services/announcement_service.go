package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/views"
	"github.com/yigit/unihub/internal/pkg/apperrors"
)

// AnnouncementService defines announcement and catalog operations
type AnnouncementService interface {
	ListAnnouncements(ctx context.Context, query string) []models.Announcement
	GetAnnouncement(ctx context.Context, id int64) (models.Announcement, error)
	CreateAnnouncement(ctx context.Context, ann models.Announcement) (models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, id int64, ann models.Announcement) (models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error

	Faculties() []string
	Departments(faculty string) ([]string, error)
	Batches() []string
}

// announcementServiceImpl implements AnnouncementService
type announcementServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(repos *repositories.Repositories, logger zerolog.Logger) AnnouncementService {
	return &announcementServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// validateAnnouncement trims the text fields and checks the audience
// against the catalog. Audience fields are optional.
func validateAnnouncement(ann models.Announcement) (models.Announcement, error) {
	ann.Title = strings.TrimSpace(ann.Title)
	ann.Content = strings.TrimSpace(ann.Content)

	if ann.Title == "" {
		return ann, apperrors.NewValidationError("title", "Title is required")
	}
	if ann.Content == "" {
		return ann, apperrors.NewValidationError("content", "Content is required")
	}

	var form models.AnnouncementForm
	if ann.Faculty != "" && !form.SelectFaculty(ann.Faculty) {
		return ann, apperrors.NewValidationError("faculty", fmt.Sprintf("Unknown faculty %q", ann.Faculty))
	}
	if ann.Department != "" && !form.SelectDepartment(ann.Department) {
		return ann, apperrors.NewValidationError("department",
			fmt.Sprintf("Department %q does not belong to faculty %q", ann.Department, ann.Faculty))
	}
	if ann.Batch != "" && !form.SelectBatch(ann.Batch) {
		return ann, apperrors.NewValidationError("batch", fmt.Sprintf("Unknown batch %q", ann.Batch))
	}
	return ann, nil
}

// ListAnnouncements returns announcements matching query, newest first
func (s *announcementServiceImpl) ListAnnouncements(ctx context.Context, query string) []models.Announcement {
	return views.FilterAnnouncements(s.repos.Announcements.LoadAll(ctx), query)
}

// GetAnnouncement returns one announcement
func (s *announcementServiceImpl) GetAnnouncement(ctx context.Context, id int64) (models.Announcement, error) {
	return s.repos.Announcements.FindByID(ctx, id)
}

// CreateAnnouncement publishes an announcement signed by the faculty dean
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, ann models.Announcement) (models.Announcement, error) {
	ann, err := validateAnnouncement(ann)
	if err != nil {
		return models.Announcement{}, err
	}
	ann.Author = models.DefaultAnnouncementAuthor
	ann.Time = s.repos.Now().UTC().Format(time.RFC3339)

	created, _ := s.repos.Announcements.Append(ctx, ann)
	s.logger.Info().Int64("announcementID", created.ID).Msg("Announcement published")
	return created, nil
}

// UpdateAnnouncement edits an announcement. Author and time are kept.
func (s *announcementServiceImpl) UpdateAnnouncement(ctx context.Context, id int64, ann models.Announcement) (models.Announcement, error) {
	ann, err := validateAnnouncement(ann)
	if err != nil {
		return models.Announcement{}, err
	}

	anns, err := s.repos.Announcements.UpdateByID(ctx, id, func(a *models.Announcement) {
		a.Title = ann.Title
		a.Content = ann.Content
		a.Priority = ann.Priority
		a.Image = ann.Image
		a.Faculty = ann.Faculty
		a.Department = ann.Department
		a.Batch = ann.Batch
	})
	if err != nil {
		return models.Announcement{}, err
	}

	for _, a := range anns {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Announcement{}, nil
}

// DeleteAnnouncement removes an announcement
func (s *announcementServiceImpl) DeleteAnnouncement(ctx context.Context, id int64) error {
	if _, err := s.repos.Announcements.FindByID(ctx, id); err != nil {
		return err
	}
	s.repos.Announcements.RemoveByID(ctx, id)
	return nil
}

// Faculties lists the faculties announcements can target
func (s *announcementServiceImpl) Faculties() []string {
	return append([]string(nil), models.Faculties...)
}

// Departments lists the departments of a faculty
func (s *announcementServiceImpl) Departments(faculty string) ([]string, error) {
	deps := models.DepartmentsOf(faculty)
	if deps == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Faculty %q not found", faculty))
	}
	return deps, nil
}

// Batches lists the batches announcements can target
func (s *announcementServiceImpl) Batches() []string {
	return append([]string(nil), models.Batches...)
}
