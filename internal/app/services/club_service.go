package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/views"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/validation"
)

// ClubService defines club and approval-queue operations
type ClubService interface {
	ListClubs(ctx context.Context, query string) []models.Club
	GetClub(ctx context.Context, id int64) (models.Club, error)
	CreateClub(ctx context.Context, club models.Club) (models.Club, error)
	UpdateClub(ctx context.Context, id int64, club models.Club) (models.Club, error)
	DeleteClub(ctx context.Context, id int64) error

	ListQueue(ctx context.Context, query string) []models.QueueEntry
	SubmitRequest(ctx context.Context, entry models.QueueEntry) (models.QueueEntry, error)
	ApproveQueueEntry(ctx context.Context, id int64) (models.Club, error)
	ApproveQueueEntries(ctx context.Context, ids []int64) []models.Club
	RejectQueueEntry(ctx context.Context, id int64) error
	RejectQueueEntries(ctx context.Context, ids []int64) []models.QueueEntry
	RecoverPendingApprovals(ctx context.Context) int
}

// clubServiceImpl implements ClubService
type clubServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewClubService creates a new ClubService
func NewClubService(repos *repositories.Repositories, logger zerolog.Logger) ClubService {
	return &clubServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// ListClubs returns the clubs matching query by name, about or members
func (s *clubServiceImpl) ListClubs(ctx context.Context, query string) []models.Club {
	return views.FilterClubs(s.repos.Clubs.LoadAll(ctx), query)
}

// GetClub returns one club
func (s *clubServiceImpl) GetClub(ctx context.Context, id int64) (models.Club, error) {
	return s.repos.Clubs.FindByID(ctx, id)
}

func normalizeClub(club models.Club) (models.Club, error) {
	club.Name = strings.TrimSpace(club.Name)
	club.Leader = strings.TrimSpace(club.Leader)
	club.About = strings.TrimSpace(club.About)

	if !validation.ValidName(club.Name) {
		return club, apperrors.NewValidationError("name", "Club name is required")
	}
	if club.Members < 0 {
		return club, apperrors.NewValidationError("members", "Members cannot be negative")
	}
	return club, nil
}

// CreateClub appends a club with the next sequential id
func (s *clubServiceImpl) CreateClub(ctx context.Context, club models.Club) (models.Club, error) {
	club, err := normalizeClub(club)
	if err != nil {
		return models.Club{}, err
	}
	club.SourceRequestID = 0

	created, _ := s.repos.Clubs.Append(ctx, club)
	if created.ID != 0 {
		s.logger.Info().Int64("clubID", created.ID).Str("name", created.Name).Msg("Club created")
	}
	return created, nil
}

// UpdateClub replaces the editable fields of a club
func (s *clubServiceImpl) UpdateClub(ctx context.Context, id int64, club models.Club) (models.Club, error) {
	club, err := normalizeClub(club)
	if err != nil {
		return models.Club{}, err
	}

	clubs, err := s.repos.Clubs.UpdateByID(ctx, id, func(c *models.Club) {
		c.Name = club.Name
		c.Leader = club.Leader
		c.Members = club.Members
		c.About = club.About
		c.Image = club.Image
	})
	if err != nil {
		return models.Club{}, err
	}

	for _, c := range clubs {
		if c.ID == id {
			return c, nil
		}
	}
	return club, nil
}

// DeleteClub removes a club
func (s *clubServiceImpl) DeleteClub(ctx context.Context, id int64) error {
	if _, err := s.repos.Clubs.FindByID(ctx, id); err != nil {
		return err
	}
	s.repos.Clubs.RemoveByID(ctx, id)
	s.logger.Info().Int64("clubID", id).Msg("Club deleted")
	return nil
}

// ListQueue returns the pending requests matching query
func (s *clubServiceImpl) ListQueue(ctx context.Context, query string) []models.QueueEntry {
	return views.FilterQueue(s.repos.ClubQueue.LoadAll(ctx), query)
}

// SubmitRequest queues a request to open a club
func (s *clubServiceImpl) SubmitRequest(ctx context.Context, entry models.QueueEntry) (models.QueueEntry, error) {
	entry.Student = strings.TrimSpace(entry.Student)
	entry.Batch = strings.TrimSpace(entry.Batch)
	entry.Request = strings.TrimSpace(entry.Request)

	if entry.Student == "" {
		return models.QueueEntry{}, apperrors.NewValidationError("student", "Student is required")
	}
	if !validation.ValidName(entry.Request) {
		return models.QueueEntry{}, apperrors.NewValidationError("request", "Requested club name is required")
	}

	created, _ := s.repos.ClubQueue.Append(ctx, entry)
	return created, nil
}

// ApproveQueueEntry turns one queued request into a club
func (s *clubServiceImpl) ApproveQueueEntry(ctx context.Context, id int64) (models.Club, error) {
	queue, err := s.repos.ClubQueue.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("entryID", id).Msg("Failed to load queue for approval")
		return models.Club{}, nil
	}
	if picked, _ := s.repos.ClubQueue.Split(queue, id); len(picked) == 0 {
		return models.Club{}, apperrors.NewNotFoundError("Queue entry not found")
	}

	created := s.approve(ctx, []int64{id})
	if len(created) == 0 {
		return models.Club{}, nil
	}
	return created[0], nil
}

// ApproveQueueEntries approves several requests with one queue write and one
// club write. Unknown ids are ignored. Clubs are created in queue order.
func (s *clubServiceImpl) ApproveQueueEntries(ctx context.Context, ids []int64) []models.Club {
	if len(ids) == 0 {
		return nil
	}
	return s.approve(ctx, ids)
}

// approve moves the picked queue entries into the club list.
//
// The clubs are planned up front, ids included, and recorded with the
// picked entries under a pending marker. The queue and club writes follow,
// and the marker is cleared last. A crash between the writes leaves the
// marker behind for RecoverPendingApprovals, which writes whichever planned
// rows are missing.
func (s *clubServiceImpl) approve(ctx context.Context, ids []int64) []models.Club {
	s.RecoverPendingApprovals(ctx)

	queue, err := s.repos.ClubQueue.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load queue for approval")
		return nil
	}

	picked, rest := s.repos.ClubQueue.Split(queue, ids...)
	if len(picked) == 0 {
		return nil
	}

	clubs, err := s.repos.Clubs.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load clubs for approval")
		return nil
	}
	planned, next := s.repos.Clubs.InsertAll(clubs, clubsFromRequests(picked))

	pending := &repositories.PendingApproval{Entries: picked, Clubs: planned, StartedAt: s.repos.Now()}
	if err := s.repos.PendingApprovals.Write(ctx, pending); err != nil {
		s.logger.Error().Err(err).Msg("Failed to record pending approval")
		return nil
	}

	if err := s.repos.ClubQueue.Write(ctx, rest); err != nil {
		s.logger.Error().Err(err).Msg("Failed to remove approved entries from queue")
		s.clearPending(ctx)
		return nil
	}

	if err := s.repos.Clubs.Write(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create approved clubs, left pending for recovery")
		return nil
	}

	s.clearPending(ctx)
	s.logger.Info().Int("count", len(planned)).Msg("Queue entries approved")
	return planned
}

func clubsFromRequests(entries []models.QueueEntry) []models.Club {
	clubs := make([]models.Club, len(entries))
	for i, e := range entries {
		clubs[i] = models.ClubFromRequest(e)
	}
	return clubs
}

// restoreClubs appends the planned rows that are not stored yet. A row
// counts as stored when a club with its id came from the same request.
// A planned id taken by some other club gets a fresh one.
func (s *clubServiceImpl) restoreClubs(clubs, planned []models.Club) (restored, next []models.Club) {
	next = append(make([]models.Club, 0, len(clubs)+len(planned)), clubs...)
	byID := make(map[int64]models.Club, len(next))
	for _, c := range next {
		byID[c.ID] = c
	}

	for _, c := range planned {
		if existing, ok := byID[c.ID]; ok {
			if existing.SourceRequestID == c.SourceRequestID {
				continue
			}
			c.ID = s.repos.Clubs.NextID(next)
		}
		byID[c.ID] = c
		next = append(next, c)
		restored = append(restored, c)
	}
	return restored, next
}

func (s *clubServiceImpl) clearPending(ctx context.Context) {
	if err := s.repos.PendingApprovals.Remove(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear pending approval marker")
	}
}

// RecoverPendingApprovals completes an approval interrupted between its
// writes and returns how many clubs it created
func (s *clubServiceImpl) RecoverPendingApprovals(ctx context.Context) int {
	pending, present, err := s.repos.PendingApprovals.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read pending approval marker")
		return 0
	}
	if !present {
		return 0
	}
	if pending == nil || len(pending.Entries) == 0 {
		s.clearPending(ctx)
		return 0
	}

	log := s.logger.With().Int("entries", len(pending.Entries)).Time("startedAt", pending.StartedAt).Logger()
	log.Warn().Msg("Recovering interrupted queue approval")

	ids := make([]int64, len(pending.Entries))
	for i, e := range pending.Entries {
		ids[i] = e.ID
	}

	queue, err := s.repos.ClubQueue.Read(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load queue during recovery")
		return 0
	}
	if stale, rest := s.repos.ClubQueue.Split(queue, ids...); len(stale) > 0 {
		if err := s.repos.ClubQueue.Write(ctx, rest); err != nil {
			log.Error().Err(err).Msg("Failed to remove approved entries during recovery")
			return 0
		}
	}

	clubs, err := s.repos.Clubs.Read(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load clubs during recovery")
		return 0
	}

	planned := pending.Clubs
	if len(planned) == 0 {
		planned, _ = s.repos.Clubs.InsertAll(clubs, clubsFromRequests(pending.Entries))
	}

	restored, next := s.restoreClubs(clubs, planned)
	if len(restored) > 0 {
		if err := s.repos.Clubs.Write(ctx, next); err != nil {
			log.Error().Err(err).Msg("Failed to create clubs during recovery")
			return 0
		}
	}

	s.clearPending(ctx)
	log.Info().Int("created", len(restored)).Msg("Queue approval recovered")
	return len(restored)
}

// RejectQueueEntry drops one queued request
func (s *clubServiceImpl) RejectQueueEntry(ctx context.Context, id int64) error {
	if _, err := s.repos.ClubQueue.FindByID(ctx, id); err != nil {
		return err
	}
	s.repos.ClubQueue.RemoveByID(ctx, id)
	return nil
}

// RejectQueueEntries drops several requests in one write and returns the
// remaining queue
func (s *clubServiceImpl) RejectQueueEntries(ctx context.Context, ids []int64) []models.QueueEntry {
	if len(ids) == 0 {
		return s.repos.ClubQueue.LoadAll(ctx)
	}
	return s.repos.ClubQueue.RemoveByIDs(ctx, ids...)
}
