package controllers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unihub/internal/app/controllers"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/routes"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/app/views"
	"github.com/yigit/unihub/internal/pkg/blobstore"
	"github.com/yigit/unihub/internal/pkg/blobstore/blobstoretest"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type page[T any] struct {
	Items      []T                `json:"items"`
	Pagination dto.PaginationInfo `json:"pagination"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	return newAPIOver(t, blobstore.NewMemoryStore())
}

func newAPIOver(t *testing.T, store blobstore.Store) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repositories.NewRepositories(store, nil, zerolog.Nop())
	ctrls := controllers.NewControllers(services.NewServices(repos, zerolog.Nop()))

	router := gin.New()
	routes.SetupRouter(router, ctrls, nil)
	return &api{t: t, router: router}
}

func (a *api) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestPing(t *testing.T) {
	a := newAPI(t)
	code, env := a.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestClubs(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/clubs", gin.H{"name": "Chess", "leader": "Ali", "members": 3})
	require.Equal(t, http.StatusCreated, code)
	club := decode[models.Club](t, env.Data)
	assert.Equal(t, int64(1), club.ID)

	code, env = a.do(http.MethodPost, "/clubs", gin.H{"leader": "Ali"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	assert.Equal(t, "Name", env.Error.Field)

	code, _ = a.do(http.MethodGet, "/clubs/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodGet, "/clubs/99", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, env.Error.Code)

	code, env = a.do(http.MethodPut, "/clubs/1", gin.H{"name": "Chess Club", "members": 4})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Chess Club", decode[models.Club](t, env.Data).Name)

	code, env = a.do(http.MethodGet, "/clubs?q=chess", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[page[models.Club]](t, env.Data)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	code, _ = a.do(http.MethodDelete, "/clubs/1", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodDelete, "/clubs/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestClubQueue(t *testing.T) {
	a := newAPI(t)

	for _, student := range []string{"Dacar", "Abdi", "Ahmed"} {
		code, _ := a.do(http.MethodPost, "/club-queue", gin.H{"student": student, "batch": "B13", "request": "AI " + student})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := a.do(http.MethodPost, "/club-queue/1/approve", nil)
	require.Equal(t, http.StatusCreated, code)
	club := decode[models.Club](t, env.Data)
	assert.Equal(t, "AI Dacar", club.Name)
	assert.Equal(t, int64(1), club.SourceRequestID)

	code, _ = a.do(http.MethodPost, "/club-queue/1/approve", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodPost, "/club-queue/approve", gin.H{"ids": []int64{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodPost, "/club-queue/reject", gin.H{"ids": []int64{2, 42}})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.QueueEntry](t, env.Data), 1)

	code, env = a.do(http.MethodGet, "/club-queue", nil)
	require.Equal(t, http.StatusOK, code)
	queue := decode[page[models.QueueEntry]](t, env.Data)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, int64(3), queue.Items[0].ID)
}

func TestChannelsPostsAndPermissions(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/channels", gin.H{"name": "Batch 14", "count": 30, "type": "Batch"})
	require.Equal(t, http.StatusCreated, code)
	channel := decode[models.Channel](t, env.Data)
	require.NotEmpty(t, channel.ID)

	code, env = a.do(http.MethodPost, "/channels", gin.H{"name": "batch14", "count": 5, "type": "Batch"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, env.Error.Code)

	code, _ = a.do(http.MethodPost, "/channels", gin.H{"name": "Batch 15", "count": 0, "type": "Batch"})
	assert.Equal(t, http.StatusBadRequest, code)

	base := "/channels/" + channel.ID

	code, env = a.do(http.MethodGet, base+"/permissions", nil)
	require.Equal(t, http.StatusOK, code)
	perms := decode[dto.PermissionsResponse](t, env.Data)
	assert.True(t, perms.Permissions[models.NoPermissions])
	assert.Empty(t, perms.Grants)

	code, env = a.do(http.MethodPut, base+"/permissions", gin.H{"permission": "Create Posts", "value": true})
	require.Equal(t, http.StatusOK, code)
	perms = decode[dto.PermissionsResponse](t, env.Data)
	assert.False(t, perms.Permissions[models.NoPermissions])
	assert.Equal(t, []models.Permission{models.PermissionCreatePosts}, perms.Grants)

	code, _ = a.do(http.MethodPut, base+"/permissions", gin.H{"permission": "Fly", "value": true})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, base+"/posts", gin.H{"title": "Hi", "body": "too short"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodPost, base+"/posts", gin.H{"title": "Study group", "body": "Library at five on Thursday."})
	require.Equal(t, http.StatusCreated, code)
	post := decode[models.Post](t, env.Data)
	assert.True(t, post.AllowComments)

	postPath := base + "/posts/" + post.ID

	code, env = a.do(http.MethodPut, postPath+"/like", gin.H{"liked": true})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.LikeRecord{Count: 1, Liked: true}, decode[models.LikeRecord](t, env.Data))

	code, env = a.do(http.MethodPost, postPath+"/comments", gin.H{"text": "Count me in"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, models.DefaultCommentAuthor, decode[models.Comment](t, env.Data).Author)

	code, env = a.do(http.MethodGet, base+"/posts", nil)
	require.Equal(t, http.StatusOK, code)
	feed := decode[page[views.FeedItem]](t, env.Data)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, 1, feed.Items[0].Likes.Count)
	assert.Equal(t, 1, feed.Items[0].CommentCount)

	code, _ = a.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = a.do(http.MethodGet, base+"/posts", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPostDraft(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(http.MethodGet, "/post-draft", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodPut, "/post-draft", gin.H{"title": "Half", "allowComments": false})
	require.Equal(t, http.StatusNoContent, code)

	code, env := a.do(http.MethodGet, "/post-draft", nil)
	require.Equal(t, http.StatusOK, code)
	draft := decode[models.PostDraft](t, env.Data)
	assert.Equal(t, "Half", draft.Title)
	assert.False(t, draft.AllowComments)

	code, _ = a.do(http.MethodDelete, "/post-draft", nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodGet, "/post-draft", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAnnouncementsAndCatalog(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/announcements", gin.H{
		"title": "Library Extended Hours", "content": "Open until midnight.",
		"faculty": "Arts", "department": "History", "batch": "Batch 16",
	})
	require.Equal(t, http.StatusCreated, code)
	ann := decode[models.Announcement](t, env.Data)
	assert.Equal(t, models.DefaultAnnouncementAuthor, ann.Author)

	code, _ = a.do(http.MethodPost, "/announcements", gin.H{
		"title": "Wrong", "content": "Mismatched department.", "faculty": "Arts", "department": "Finance",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodGet, "/catalog/faculties", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.Faculties, decode[[]string](t, env.Data))

	code, _ = a.do(http.MethodGet, "/catalog/faculties/Law/departments", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.do(http.MethodGet, "/catalog/batches", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.Batches, decode[[]string](t, env.Data))
}

func TestCreate_StorageFailureIsNotCreated(t *testing.T) {
	store := blobstoretest.New()
	a := newAPIOver(t, store)

	store.FailWrites(repositories.KeyClubs, true)
	code, env := a.do(http.MethodPost, "/clubs", gin.H{"name": "Chess", "leader": "Ali", "members": 3})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeStorageError, env.Error.Code)

	store.FailWrites(repositories.KeyChannels, true)
	code, env = a.do(http.MethodPost, "/channels", gin.H{"name": "Batch 14", "count": 30, "type": "Batch"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, dto.ErrorCodeStorageError, env.Error.Code)

	store.FailWrites(repositories.KeyClubs, false)
	code, _ = a.do(http.MethodPost, "/clubs", gin.H{"name": "Chess", "leader": "Ali", "members": 3})
	assert.Equal(t, http.StatusCreated, code)
}
