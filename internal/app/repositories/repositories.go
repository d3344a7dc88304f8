package repositories

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/pkg/blobstore"
)

// PendingApproval is the write-ahead record of a club approval in progress.
// Clubs holds the exact rows, ids included, the approval is about to write.
type PendingApproval struct {
	Entries   []models.QueueEntry `json:"entries"`
	Clubs     []models.Club       `json:"clubs"`
	StartedAt time.Time           `json:"startedAt"`
}

// Repositories holds all the repository instances
type Repositories struct {
	Store blobstore.Store

	Clubs            *Collection[models.Club, int64]
	ClubQueue        *Collection[models.QueueEntry, int64]
	PendingApprovals *Document[*PendingApproval]
	Channels         *Collection[models.Channel, string]
	Announcements    *Collection[models.Announcement, int64]
	PostLikes        *Keyed[models.LikeRecord]
	PostComments     *Keyed[[]models.Comment]
	PostDraft        *Document[*models.PostDraft]

	clock  func() time.Time
	logger zerolog.Logger
}

// NewRepositories initializes all repositories over store. clock drives
// timestamp ids; nil means time.Now.
func NewRepositories(store blobstore.Store, clock func() time.Time, logger zerolog.Logger) *Repositories {
	if clock == nil {
		clock = time.Now
	}

	return &Repositories{
		Store: store,
		Clubs: NewCollection(store, CollectionConfig[models.Club, int64]{
			Key:      KeyClubs,
			Fallback: []models.Club{},
			IDOf:     func(c models.Club) int64 { return c.ID },
			SetID:    func(c *models.Club, id int64) { c.ID = id },
			NextID:   SequentialIDs,
			Position: AtEnd,
		}, logger),
		ClubQueue: NewCollection(store, CollectionConfig[models.QueueEntry, int64]{
			Key:      KeyClubQueue,
			Fallback: []models.QueueEntry{},
			IDOf:     func(q models.QueueEntry) int64 { return q.ID },
			SetID:    func(q *models.QueueEntry, id int64) { q.ID = id },
			NextID:   SequentialIDs,
			Position: AtEnd,
		}, logger),
		PendingApprovals: NewDocument[*PendingApproval](store, KeyClubQueuePending, nil, logger),
		Channels: NewCollection(store, CollectionConfig[models.Channel, string]{
			Key:      KeyChannels,
			Fallback: []models.Channel{},
			IDOf:     func(c models.Channel) string { return c.ID },
			SetID:    func(c *models.Channel, id string) { c.ID = id },
			NextID:   TimestampIDs(clock),
			Position: AtFront,
		}, logger),
		Announcements: NewCollection(store, CollectionConfig[models.Announcement, int64]{
			Key:      KeyAnnouncements,
			Fallback: []models.Announcement{},
			IDOf:     func(a models.Announcement) int64 { return a.ID },
			SetID:    func(a *models.Announcement, id int64) { a.ID = id },
			NextID:   SequentialIDs,
			Position: AtFront,
		}, logger),
		PostLikes:    NewKeyed[models.LikeRecord](store, KeyPostLikes, logger),
		PostComments: NewKeyed[[]models.Comment](store, KeyPostComments, logger),
		PostDraft:    NewDocument[*models.PostDraft](store, KeyPostDraft, nil, logger),
		clock:        clock,
		logger:       logger,
	}
}

// Now returns the repositories' clock reading
func (r *Repositories) Now() time.Time {
	return r.clock()
}

// Posts returns the post collection of one channel
func (r *Repositories) Posts(channelID string) *Collection[models.Post, string] {
	return r.posts(ChannelPostsKey(channelID))
}

// LegacyPosts returns the channel-agnostic post list older data used
func (r *Repositories) LegacyPosts() *Collection[models.Post, string] {
	return r.posts(KeyLegacyPosts)
}

func (r *Repositories) posts(key string) *Collection[models.Post, string] {
	return NewCollection(r.Store, CollectionConfig[models.Post, string]{
		Key:      key,
		Fallback: []models.Post{},
		IDOf:     func(p models.Post) string { return p.ID },
		SetID:    func(p *models.Post, id string) { p.ID = id },
		NextID:   TimestampIDs(r.clock),
		Position: AtFront,
	}, r.logger)
}

// PostIDs returns every id a new post must not take: posts of all channel
// partitions and the legacy list, plus ids still keying likes or comments.
// Likes and comments are shared across channels, so post ids are too.
func (r *Repositories) PostIDs(ctx context.Context) ([]string, error) {
	channels, err := r.Channels.Read(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, key := range append(channelPostKeys(channels), KeyLegacyPosts) {
		posts, err := r.posts(key).Read(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
	}

	likes, err := r.PostLikes.Read(ctx)
	if err != nil {
		return nil, err
	}
	for id := range likes {
		ids = append(ids, id)
	}

	comments, err := r.PostComments.Read(ctx)
	if err != nil {
		return nil, err
	}
	for id := range comments {
		ids = append(ids, id)
	}
	return ids, nil
}

func channelPostKeys(channels []models.Channel) []string {
	keys := make([]string, len(channels))
	for i, ch := range channels {
		keys[i] = ChannelPostsKey(ch.ID)
	}
	return keys
}

// Permissions returns the permission document of one channel
func (r *Repositories) Permissions(channelName string) *Document[models.PermissionSet] {
	return NewDocument(r.Store, ChannelPermissionsKey(channelName), models.NewPermissionSet(), r.logger)
}

// CommentIDs generates comment ids
func (r *Repositories) CommentIDs() IDGenerator[string] {
	return TimestampIDs(r.clock)
}
