package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/blobstore/blobstoretest"
)

type fixture struct {
	ctx   context.Context
	store *blobstoretest.FaultyStore
	repos *repositories.Repositories
	svc   *Services
}

// newFixture wires services over a fault-injecting memory store. The clock
// advances one second per reading so timestamps are ordered.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	var tick int64
	return newFixtureAt(t, func() time.Time {
		n := atomic.AddInt64(&tick, 1)
		return time.UnixMilli(1700000000000 + n*1000)
	})
}

func newFixtureAt(t *testing.T, clock func() time.Time) *fixture {
	t.Helper()
	store := blobstoretest.New()
	repos := repositories.NewRepositories(store, clock, zerolog.Nop())
	return &fixture{
		ctx:   context.Background(),
		store: store,
		repos: repos,
		svc:   NewServices(repos, zerolog.Nop()),
	}
}

func (f *fixture) put(t *testing.T, key string, value interface{}) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(f.ctx, key, raw))
}

func seedQueue() []models.QueueEntry {
	return []models.QueueEntry{
		{ID: 101, Student: "Dacar", Batch: "B13", Request: "AI"},
		{ID: 102, Student: "Abdi", Batch: "B14", Request: "Software dev"},
		{ID: 103, Student: "Ahemd", Batch: "B15", Request: "Full stack"},
		{ID: 104, Student: "Abdi", Batch: "B16", Request: "Multimedia"},
	}
}

func TestApproveQueueEntry_CreatesClub(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue()[:1])

	club, err := f.svc.ClubService.ApproveQueueEntry(f.ctx, 101)
	require.NoError(t, err)

	assert.Empty(t, f.repos.ClubQueue.LoadAll(f.ctx))
	clubs := f.repos.Clubs.LoadAll(f.ctx)
	require.Len(t, clubs, 1)
	assert.Equal(t, models.Club{ID: 1, Name: "AI", Leader: "—", Members: 0, About: "", Image: nil, SourceRequestID: 101}, clubs[0])
	assert.Equal(t, clubs[0], club)

	_, present, err := f.repos.PendingApprovals.Read(f.ctx)
	require.NoError(t, err)
	assert.False(t, present, "marker is cleared after a complete approval")
}

func TestApproveQueueEntry_Missing(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())

	_, err := f.svc.ClubService.ApproveQueueEntry(f.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Len(t, f.repos.ClubQueue.LoadAll(f.ctx), 4)
	assert.Zero(t, f.store.Writes(repositories.KeyClubs))
}

func TestApproveQueueEntries_Bulk(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())
	queueWrites := f.store.Writes(repositories.KeyClubQueue)

	created := f.svc.ClubService.ApproveQueueEntries(f.ctx, []int64{103, 101})
	require.Len(t, created, 2)
	assert.Equal(t, "AI", created[0].Name, "clubs follow queue order")
	assert.Equal(t, "Full stack", created[1].Name)

	queue := f.repos.ClubQueue.LoadAll(f.ctx)
	require.Len(t, queue, 2)
	assert.Equal(t, int64(102), queue[0].ID)
	assert.Equal(t, int64(104), queue[1].ID)

	clubs := f.repos.Clubs.LoadAll(f.ctx)
	require.Len(t, clubs, 2)
	assert.Equal(t, []int64{1, 2}, []int64{clubs[0].ID, clubs[1].ID})

	assert.Equal(t, queueWrites+1, f.store.Writes(repositories.KeyClubQueue), "one queue write")
	assert.Equal(t, 1, f.store.Writes(repositories.KeyClubs), "one club write")
}

func TestApprove_ClubWriteFailureIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())
	f.store.FailWrites(repositories.KeyClubs, true)

	created := f.svc.ClubService.ApproveQueueEntries(f.ctx, []int64{101, 102})
	assert.Empty(t, created)

	_, present, err := f.repos.PendingApprovals.Read(f.ctx)
	require.NoError(t, err)
	assert.True(t, present, "marker survives the failed club write")

	f.store.FailWrites(repositories.KeyClubs, false)
	assert.Equal(t, 2, f.svc.ClubService.RecoverPendingApprovals(f.ctx))
	assert.Zero(t, f.svc.ClubService.RecoverPendingApprovals(f.ctx), "recovery runs once")

	clubs := f.repos.Clubs.LoadAll(f.ctx)
	require.Len(t, clubs, 2)
	assert.Equal(t, "AI", clubs[0].Name)
	assert.Equal(t, "Software dev", clubs[1].Name)
	assert.Len(t, f.repos.ClubQueue.LoadAll(f.ctx), 2)
}

func TestRecoverPendingApprovals_SkipsExistingClubs(t *testing.T) {
	f := newFixture(t)
	// crash after the club write, before the marker was cleared
	f.put(t, repositories.KeyClubs, []models.Club{{ID: 1, Name: "AI", Leader: "—", SourceRequestID: 101}})
	f.put(t, repositories.KeyClubQueue, seedQueue()[1:])
	f.put(t, repositories.KeyClubQueuePending, repositories.PendingApproval{
		Entries: seedQueue()[:2],
		Clubs: []models.Club{
			{ID: 1, Name: "AI", Leader: "—", SourceRequestID: 101},
			{ID: 2, Name: "Software dev", Leader: "—", SourceRequestID: 102},
		},
	})

	assert.Equal(t, 1, f.svc.ClubService.RecoverPendingApprovals(f.ctx))

	clubs := f.repos.Clubs.LoadAll(f.ctx)
	require.Len(t, clubs, 2)
	assert.Equal(t, int64(2), clubs[1].ID)
	assert.Equal(t, "Software dev", clubs[1].Name)

	queue := f.repos.ClubQueue.LoadAll(f.ctx)
	require.Len(t, queue, 2)
	assert.Equal(t, int64(103), queue[0].ID)
}

func TestRecoverPendingApprovals_PlannedIDTakenByOtherClub(t *testing.T) {
	f := newFixture(t)
	// crash before the club write, then a club was created directly
	f.put(t, repositories.KeyClubs, []models.Club{{ID: 1, Name: "Chess", Leader: "Ayan"}})
	f.put(t, repositories.KeyClubQueuePending, repositories.PendingApproval{
		Entries: seedQueue()[:1],
		Clubs:   []models.Club{{ID: 1, Name: "AI", Leader: "—", SourceRequestID: 101}},
	})

	assert.Equal(t, 1, f.svc.ClubService.RecoverPendingApprovals(f.ctx))

	clubs := f.repos.Clubs.LoadAll(f.ctx)
	require.Len(t, clubs, 2)
	assert.Equal(t, "Chess", clubs[0].Name)
	assert.Equal(t, models.Club{ID: 2, Name: "AI", Leader: "—", SourceRequestID: 101}, clubs[1])
}

func TestApproveQueueEntry_ReusedRequestIDStillCreatesClub(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())

	first, err := f.svc.ClubService.ApproveQueueEntry(f.ctx, 104)
	require.NoError(t, err)
	assert.Equal(t, "Multimedia", first.Name)

	entry, err := f.svc.ClubService.SubmitRequest(f.ctx, models.QueueEntry{Student: "Hodan", Batch: "B14", Request: "Robotics"})
	require.NoError(t, err)
	require.Equal(t, int64(104), entry.ID, "the freed id is handed out again")

	second, err := f.svc.ClubService.ApproveQueueEntry(f.ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robotics", second.Name)
	assert.Equal(t, int64(2), second.ID)

	clubs := f.repos.Clubs.LoadAll(f.ctx)
	names := make([]string, len(clubs))
	for i, c := range clubs {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Multimedia", "Robotics"}, names)
	assert.Len(t, f.repos.ClubQueue.LoadAll(f.ctx), 3)
}

func TestApprove_QueueWriteFailureChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())
	f.store.FailWrites(repositories.KeyClubQueue, true)

	_, err := f.svc.ClubService.ApproveQueueEntry(f.ctx, 101)
	require.NoError(t, err)

	assert.Len(t, f.repos.ClubQueue.LoadAll(f.ctx), 4)
	assert.Empty(t, f.repos.Clubs.LoadAll(f.ctx))
	_, present, _ := f.repos.PendingApprovals.Read(f.ctx)
	assert.False(t, present)
}

func TestRejectQueueEntries(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())

	require.NoError(t, f.svc.ClubService.RejectQueueEntry(f.ctx, 104))
	assert.ErrorIs(t, f.svc.ClubService.RejectQueueEntry(f.ctx, 104), apperrors.ErrNotFound)

	left := f.svc.ClubService.RejectQueueEntries(f.ctx, []int64{101, 102, 555})
	require.Len(t, left, 1)
	assert.Equal(t, int64(103), left[0].ID)
	assert.Empty(t, f.repos.Clubs.LoadAll(f.ctx))
}

func TestClubCRUD(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.ClubService

	_, err := svc.CreateClub(f.ctx, models.Club{Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	club, err := svc.CreateClub(f.ctx, models.Club{Name: " Chess ", Leader: "Ali", Members: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), club.ID)
	assert.Equal(t, "Chess", club.Name)

	updated, err := svc.UpdateClub(f.ctx, club.ID, models.Club{Name: "Chess Club", Leader: "Ali", Members: 10})
	require.NoError(t, err)
	assert.Equal(t, club.ID, updated.ID)
	assert.Equal(t, 10, updated.Members)

	_, err = svc.UpdateClub(f.ctx, 42, models.Club{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Len(t, svc.ListClubs(f.ctx, "chess"), 1)
	require.NoError(t, svc.DeleteClub(f.ctx, club.ID))
	assert.ErrorIs(t, svc.DeleteClub(f.ctx, club.ID), apperrors.ErrNotFound)
}

func TestSubmitRequest(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())

	entry, err := f.svc.ClubService.SubmitRequest(f.ctx, models.QueueEntry{Student: "Sara", Batch: "B12", Request: "Chess"})
	require.NoError(t, err)
	assert.Equal(t, int64(105), entry.ID)

	_, err = f.svc.ClubService.SubmitRequest(f.ctx, models.QueueEntry{Student: "Sara"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateChannel_RejectsDuplicateName(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.ChannelService

	_, err := svc.CreateChannel(f.ctx, "batch 14", 30, "Batch")
	require.NoError(t, err)
	writes := f.store.Writes(repositories.KeyChannels)

	_, err = svc.CreateChannel(f.ctx, "BATCH 14", 12, "Batch")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	_, err = svc.CreateChannel(f.ctx, "Batch14", 12, "Batch")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	assert.Equal(t, writes, f.store.Writes(repositories.KeyChannels))
	assert.Len(t, svc.ListChannels(f.ctx, ""), 1)
}

func TestCreateChannel_Validation(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.ChannelService

	_, err := svc.CreateChannel(f.ctx, "", 3, "Batch")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.CreateChannel(f.ctx, "Batch 12", 0, "Batch")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.CreateChannel(f.ctx, "Batch 12", 3, " ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListChannels_SortedByBatch(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.ChannelService

	for _, name := range []string{"Batch 12", "Batch 15", "Batch 13"} {
		_, err := svc.CreateChannel(f.ctx, name, 10, "Batch")
		require.NoError(t, err)
	}

	got := svc.ListChannels(f.ctx, "")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Batch 15", "Batch 13", "Batch 12"}, []string{got[0].Name, got[1].Name, got[2].Name})

	stored := f.repos.Channels.LoadAll(f.ctx)
	assert.Equal(t, "Batch 13", stored[0].Name, "new channels are stored first")
}

func TestSetPermission_MutualExclusion(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	svc := f.svc.ChannelService

	set, err := svc.GetPermissions(f.ctx, "Batch 14")
	require.NoError(t, err)
	assert.True(t, set.Has(models.NoPermissions))

	set, err = svc.SetPermission(f.ctx, "Batch 14", models.PermissionCreatePosts, true)
	require.NoError(t, err)
	assert.False(t, set.Has(models.NoPermissions))

	set, err = svc.SetPermission(f.ctx, "Batch 14", models.PermissionCreatePosts, false)
	require.NoError(t, err)
	assert.True(t, set.Has(models.NoPermissions))

	raw, err := f.store.Get(f.ctx, repositories.ChannelPermissionsKey("Batch 14"))
	require.NoError(t, err)
	var flags map[string]bool
	require.NoError(t, json.Unmarshal(raw, &flags))
	assert.True(t, flags["No Permissions"])
	assert.False(t, flags["Create Posts"])
}

func TestSetPermission_NoPermissionsRevokesAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	svc := f.svc.ChannelService

	_, err = svc.SetPermission(f.ctx, "Batch 14", models.PermissionEditPosts, true)
	require.NoError(t, err)
	_, err = svc.SetPermission(f.ctx, "Batch 14", models.PermissionPinPosts, true)
	require.NoError(t, err)

	set, err := svc.SetPermission(f.ctx, "Batch 14", models.NoPermissions, true)
	require.NoError(t, err)
	assert.True(t, set.None())
}

func TestSetPermission_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)

	_, err = f.svc.ChannelService.SetPermission(f.ctx, "Batch 14", "Fly", true)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.ChannelService.SetPermission(f.ctx, "Batch 99", models.PermissionCreatePosts, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func validDraft(title string) models.PostDraft {
	return models.PostDraft{Title: title, Body: "A body long enough to publish.", AllowComments: true}
}

func TestDeletePost_Cascade(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	posts := f.svc.PostService

	keep, err := posts.CreatePost(f.ctx, ch.ID, validDraft("Keep this"))
	require.NoError(t, err)
	gone, err := posts.CreatePost(f.ctx, ch.ID, validDraft("Delete this"))
	require.NoError(t, err)

	for _, p := range []models.Post{keep, gone} {
		_, err = posts.SetLike(f.ctx, ch.ID, p.ID, true)
		require.NoError(t, err)
		_, err = posts.AddComment(f.ctx, ch.ID, p.ID, "nice")
		require.NoError(t, err)
	}

	require.NoError(t, posts.DeletePost(f.ctx, ch.ID, gone.ID))

	feed, err := posts.Feed(f.ctx, ch.ID, "")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, keep.ID, feed[0].ID)

	_, ok := f.repos.PostLikes.Get(f.ctx, gone.ID)
	assert.False(t, ok)
	_, ok = f.repos.PostComments.Get(f.ctx, gone.ID)
	assert.False(t, ok)
	_, ok = f.repos.PostLikes.Get(f.ctx, keep.ID)
	assert.True(t, ok)

	assert.ErrorIs(t, posts.DeletePost(f.ctx, ch.ID, gone.ID), apperrors.ErrNotFound)
}

func TestCreatePost_IDsUniqueAcrossChannels(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	f := newFixtureAt(t, func() time.Time { return frozen })
	posts := f.svc.PostService

	a, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 12", 30, "Batch")
	require.NoError(t, err)
	b, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 13", 30, "Batch")
	require.NoError(t, err)

	pa, err := posts.CreatePost(f.ctx, a.ID, validDraft("Post in A"))
	require.NoError(t, err)
	pb, err := posts.CreatePost(f.ctx, b.ID, validDraft("Post in B"))
	require.NoError(t, err)
	assert.NotEqual(t, pa.ID, pb.ID)

	_, err = posts.SetLike(f.ctx, b.ID, pb.ID, true)
	require.NoError(t, err)
	_, err = posts.AddComment(f.ctx, b.ID, pb.ID, "first")
	require.NoError(t, err)

	require.NoError(t, f.svc.ChannelService.DeleteChannel(f.ctx, a.ID))

	_, ok := f.repos.PostLikes.Get(f.ctx, pb.ID)
	assert.True(t, ok, "likes of another channel survive")
	_, ok = f.repos.PostComments.Get(f.ctx, pb.ID)
	assert.True(t, ok, "comments of another channel survive")
}

func TestCreatePost_SkipsIDsStillKeyingLikes(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	f := newFixtureAt(t, func() time.Time { return frozen })
	f.put(t, repositories.KeyPostLikes, map[string]models.LikeRecord{"1700000000000": {Count: 2}})

	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 12", 30, "Batch")
	require.NoError(t, err)
	post, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("Fresh post"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000001", post.ID)
}

func TestDeletePost_DependentWriteFailureKeepsPost(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	post, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("Stays put"))
	require.NoError(t, err)
	_, err = f.svc.PostService.SetLike(f.ctx, ch.ID, post.ID, true)
	require.NoError(t, err)

	f.store.FailWrites(repositories.KeyPostLikes, true)
	require.NoError(t, f.svc.PostService.DeletePost(f.ctx, ch.ID, post.ID))

	feed, err := f.svc.PostService.Feed(f.ctx, ch.ID, "")
	require.NoError(t, err)
	assert.Len(t, feed, 1, "post survives when its likes could not be removed")
}

func TestDeleteChannel_Cascade(t *testing.T) {
	f := newFixture(t)
	chSvc := f.svc.ChannelService
	posts := f.svc.PostService

	doomed, err := chSvc.CreateChannel(f.ctx, "Batch 13", 20, "Batch")
	require.NoError(t, err)
	other, err := chSvc.CreateChannel(f.ctx, "Batch 14", 20, "Batch")
	require.NoError(t, err)

	p1, err := posts.CreatePost(f.ctx, doomed.ID, validDraft("First post"))
	require.NoError(t, err)
	p2, err := posts.CreatePost(f.ctx, other.ID, validDraft("Other post"))
	require.NoError(t, err)
	for _, pair := range [][2]string{{doomed.ID, p1.ID}, {other.ID, p2.ID}} {
		_, err = posts.SetLike(f.ctx, pair[0], pair[1], true)
		require.NoError(t, err)
		_, err = posts.AddComment(f.ctx, pair[0], pair[1], "hello")
		require.NoError(t, err)
	}
	_, err = chSvc.SetPermission(f.ctx, "Batch 13", models.PermissionCreatePosts, true)
	require.NoError(t, err)

	require.NoError(t, chSvc.DeleteChannel(f.ctx, doomed.ID))

	_, err = chSvc.GetChannel(f.ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, key := range []string{repositories.ChannelPostsKey(doomed.ID), repositories.ChannelPermissionsKey("Batch 13")} {
		_, err = f.store.Get(f.ctx, key)
		assert.Error(t, err, "key %s should be gone", key)
	}
	_, ok := f.repos.PostLikes.Get(f.ctx, p1.ID)
	assert.False(t, ok)
	_, ok = f.repos.PostComments.Get(f.ctx, p1.ID)
	assert.False(t, ok)

	_, ok = f.repos.PostLikes.Get(f.ctx, p2.ID)
	assert.True(t, ok)
	feed, err := posts.Feed(f.ctx, other.ID, "")
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	assert.ErrorIs(t, chSvc.DeleteChannel(f.ctx, doomed.ID), apperrors.ErrNotFound)
}

func TestDeleteChannel_FailureKeepsChannel(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 13", 20, "Batch")
	require.NoError(t, err)
	post, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("First post"))
	require.NoError(t, err)
	_, err = f.svc.PostService.AddComment(f.ctx, ch.ID, post.ID, "hi")
	require.NoError(t, err)

	f.store.FailWrites(repositories.KeyPostComments, true)
	require.NoError(t, f.svc.ChannelService.DeleteChannel(f.ctx, ch.ID))

	_, err = f.svc.ChannelService.GetChannel(f.ctx, ch.ID)
	assert.NoError(t, err, "channel outlives a failed dependent delete")
	feed, err := f.svc.PostService.Feed(f.ctx, ch.ID, "")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestCreatePost_ValidationAndDraft(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	posts := f.svc.PostService

	_, err = posts.CreatePost(f.ctx, ch.ID, models.PostDraft{Title: "Hi", Body: "A body long enough."})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = posts.CreatePost(f.ctx, ch.ID, models.PostDraft{Title: "Hello there", Body: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = posts.CreatePost(f.ctx, "nope", validDraft("Hello there"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	posts.SaveDraft(f.ctx, models.PostDraft{Title: "Work in progress"})
	require.NotNil(t, posts.LoadDraft(f.ctx))

	uri := "file:///tmp/cat.png"
	draft := validDraft("  Hello there  ")
	draft.ImageURI = &uri
	post, err := posts.CreatePost(f.ctx, ch.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", post.Title)
	assert.True(t, post.HasImage)
	assert.NotEmpty(t, post.ID)
	assert.Nil(t, posts.LoadDraft(f.ctx), "publishing clears the draft")
}

func TestUpdatePost_PreservesIdentity(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	posts := f.svc.PostService

	post, err := posts.CreatePost(f.ctx, ch.ID, validDraft("Original title"))
	require.NoError(t, err)

	edited, err := posts.UpdatePost(f.ctx, ch.ID, post.ID, models.PostDraft{Title: "Edited title", Body: "Edited body text here."})
	require.NoError(t, err)
	assert.Equal(t, post.ID, edited.ID)
	assert.True(t, post.PublishedAt.Equal(edited.PublishedAt))
	assert.Equal(t, "Edited title", edited.Title)
	assert.False(t, edited.AllowComments)

	_, err = posts.UpdatePost(f.ctx, ch.ID, "missing", validDraft("Edited title"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetLike(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	post, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("Like me please"))
	require.NoError(t, err)
	posts := f.svc.PostService

	rec, err := posts.SetLike(f.ctx, ch.ID, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.LikeRecord{Count: 1, Liked: true}, rec)

	rec, err = posts.SetLike(f.ctx, ch.ID, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count, "liking twice counts once")

	rec, err = posts.SetLike(f.ctx, ch.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.LikeRecord{Count: 0, Liked: false}, rec)

	_, err = posts.SetLike(f.ctx, ch.ID, "missing", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetLike_CountNeverNegative(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	post, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("Like me please"))
	require.NoError(t, err)
	f.put(t, repositories.KeyPostLikes, map[string]models.LikeRecord{post.ID: {Count: 0, Liked: true}})

	rec, err := f.svc.PostService.SetLike(f.ctx, ch.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Count)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	posts := f.svc.PostService

	open, err := posts.CreatePost(f.ctx, ch.ID, validDraft("Comments open"))
	require.NoError(t, err)
	closedDraft := validDraft("Comments closed")
	closedDraft.AllowComments = false
	closed, err := posts.CreatePost(f.ctx, ch.ID, closedDraft)
	require.NoError(t, err)

	first, err := posts.AddComment(f.ctx, ch.ID, open.ID, " first ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Text)
	assert.Equal(t, "You", first.Author)
	assert.Equal(t, "👤", first.AuthorAvatar)

	second, err := posts.AddComment(f.ctx, ch.ID, open.ID, "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	thread, err := posts.ListComments(f.ctx, ch.ID, open.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "second", thread[0].Text, "newest first")

	_, err = posts.AddComment(f.ctx, ch.ID, closed.ID, "hello")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = posts.AddComment(f.ctx, ch.ID, open.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	feed, err := posts.Feed(f.ctx, ch.ID, "")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, closed.ID, feed[0].ID)
	assert.Equal(t, 2, feed[1].CommentCount)
}

func TestAdoptLegacyPosts(t *testing.T) {
	f := newFixture(t)
	ch, err := f.svc.ChannelService.CreateChannel(f.ctx, "Batch 14", 30, "Batch")
	require.NoError(t, err)
	existing, err := f.svc.PostService.CreatePost(f.ctx, ch.ID, validDraft("Already here"))
	require.NoError(t, err)

	older := existing.PublishedAt.Add(-time.Hour)
	f.put(t, repositories.KeyLegacyPosts, []models.Post{
		existing,
		{ID: "1", Title: "Legacy post", Body: "From before partitions.", PublishedAt: older},
	})

	n, err := f.svc.PostService.AdoptLegacyPosts(f.ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	feed, err := f.svc.PostService.Feed(f.ctx, ch.ID, "")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, existing.ID, feed[0].ID)
	assert.Equal(t, "1", feed[1].ID)

	_, err = f.store.Get(f.ctx, repositories.KeyLegacyPosts)
	assert.Error(t, err, "legacy list is removed")

	n, err = f.svc.PostService.AdoptLegacyPosts(f.ctx, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAnnouncements(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.AnnouncementService

	_, err := svc.CreateAnnouncement(f.ctx, models.Announcement{Title: "No content"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.CreateAnnouncement(f.ctx, models.Announcement{Title: "t", Content: "c", Faculty: "Law"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.CreateAnnouncement(f.ctx, models.Announcement{Title: "t", Content: "c", Faculty: "Arts", Department: "Finance"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	first, err := svc.CreateAnnouncement(f.ctx, models.Announcement{Title: "Midterm schedule", Content: "Exams moved", Faculty: "Engineering", Department: "Civil Engineering", Batch: "Batch 13"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Faculty Dean", first.Author)
	_, err = time.Parse(time.RFC3339, first.Time)
	assert.NoError(t, err)

	second, err := svc.CreateAnnouncement(f.ctx, models.Announcement{Title: "Library hours", Content: "Open late"})
	require.NoError(t, err)

	list := svc.ListAnnouncements(f.ctx, "")
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Len(t, svc.ListAnnouncements(f.ctx, "EXAMS"), 1)

	edited, err := svc.UpdateAnnouncement(f.ctx, first.ID, models.Announcement{Title: "Midterm schedule v2", Content: "Exams moved again", Priority: true})
	require.NoError(t, err)
	assert.Equal(t, first.Time, edited.Time)
	assert.True(t, edited.Priority)

	require.NoError(t, svc.DeleteAnnouncement(f.ctx, first.ID))
	assert.ErrorIs(t, svc.DeleteAnnouncement(f.ctx, first.ID), apperrors.ErrNotFound)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	svc := f.svc.AnnouncementService

	assert.Len(t, svc.Faculties(), 5)
	assert.Len(t, svc.Batches(), 5)
	deps, err := svc.Departments("Medicine")
	require.NoError(t, err)
	assert.Equal(t, []string{"General Medicine", "Dentistry", "Pharmacy"}, deps)
	_, err = svc.Departments("Law")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStorageReadFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.put(t, repositories.KeyClubQueue, seedQueue())
	f.store.FailReads(repositories.KeyClubQueue, true)

	assert.Empty(t, f.svc.ClubService.ListQueue(f.ctx, ""))
	assert.Empty(t, f.svc.ClubService.ApproveQueueEntries(f.ctx, []int64{101}))
	assert.Zero(t, f.store.Writes(repositories.KeyClubs))

	f.store.FailReads(repositories.KeyClubQueue, false)
	assert.Len(t, f.svc.ClubService.ListQueue(f.ctx, ""), 4)
}
