package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/views"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/validation"
)

// PostService defines channel feed operations
type PostService interface {
	Feed(ctx context.Context, channelID, query string) ([]views.FeedItem, error)
	CreatePost(ctx context.Context, channelID string, draft models.PostDraft) (models.Post, error)
	UpdatePost(ctx context.Context, channelID, postID string, draft models.PostDraft) (models.Post, error)
	DeletePost(ctx context.Context, channelID, postID string) error
	SetLike(ctx context.Context, channelID, postID string, liked bool) (models.LikeRecord, error)
	AddComment(ctx context.Context, channelID, postID, text string) (models.Comment, error)
	ListComments(ctx context.Context, channelID, postID string) ([]models.Comment, error)

	LoadDraft(ctx context.Context) *models.PostDraft
	SaveDraft(ctx context.Context, draft models.PostDraft)
	ClearDraft(ctx context.Context)

	AdoptLegacyPosts(ctx context.Context, channelID string) (int, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(repos *repositories.Repositories, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

func (s *postServiceImpl) requireChannel(ctx context.Context, channelID string) error {
	_, err := s.repos.Channels.FindByID(ctx, channelID)
	return err
}

func (s *postServiceImpl) findPost(ctx context.Context, channelID, postID string) (models.Post, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return models.Post{}, err
	}
	post, err := s.repos.Posts(channelID).FindByID(ctx, postID)
	if err != nil {
		return models.Post{}, apperrors.NewNotFoundError("Post not found")
	}
	return post, nil
}

func validatePostDraft(draft models.PostDraft) error {
	if !validation.ValidPostTitle(draft.Title) {
		return apperrors.NewValidationError("title", "Title must be 5-100 characters")
	}
	if !validation.ValidPostBody(draft.Body) {
		return apperrors.NewValidationError("body", "Body must be 10-1000 characters")
	}
	return nil
}

func hasImage(uri *string) bool {
	return uri != nil && strings.TrimSpace(*uri) != ""
}

// Feed returns the channel's posts, newest first, with likes and comment counts
func (s *postServiceImpl) Feed(ctx context.Context, channelID, query string) ([]views.FeedItem, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}

	posts := views.FilterPosts(s.repos.Posts(channelID).LoadAll(ctx), query)
	return views.BuildFeed(posts, s.repos.PostLikes.LoadAll(ctx), s.repos.PostComments.LoadAll(ctx)), nil
}

// CreatePost publishes draft in a channel and discards the saved draft
func (s *postServiceImpl) CreatePost(ctx context.Context, channelID string, draft models.PostDraft) (models.Post, error) {
	if err := validatePostDraft(draft); err != nil {
		return models.Post{}, err
	}
	if err := s.requireChannel(ctx, channelID); err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		Title:         strings.TrimSpace(draft.Title),
		Body:          strings.TrimSpace(draft.Body),
		AllowComments: draft.AllowComments,
		HasImage:      hasImage(draft.ImageURI),
		ImageURI:      draft.ImageURI,
		PublishedAt:   s.repos.Now().UTC(),
	}

	taken, err := s.repos.PostIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("channelID", channelID).Msg("Failed to load post ids before create")
		return models.Post{}, nil
	}

	created, _ := s.repos.Posts(channelID).AppendAvoiding(ctx, post, taken)
	if created.ID == "" {
		return created, nil
	}

	s.repos.PostDraft.Clear(ctx)
	s.logger.Info().Str("channelID", channelID).Str("postID", created.ID).Msg("Post published")
	return created, nil
}

// UpdatePost edits a post in place. Id and publish time are kept.
func (s *postServiceImpl) UpdatePost(ctx context.Context, channelID, postID string, draft models.PostDraft) (models.Post, error) {
	if err := validatePostDraft(draft); err != nil {
		return models.Post{}, err
	}
	if err := s.requireChannel(ctx, channelID); err != nil {
		return models.Post{}, err
	}

	posts, err := s.repos.Posts(channelID).UpdateByID(ctx, postID, func(p *models.Post) {
		p.Title = strings.TrimSpace(draft.Title)
		p.Body = strings.TrimSpace(draft.Body)
		p.AllowComments = draft.AllowComments
		p.HasImage = hasImage(draft.ImageURI)
		p.ImageURI = draft.ImageURI
	})
	if err != nil {
		return models.Post{}, apperrors.NewNotFoundError("Post not found")
	}

	for _, p := range posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return models.Post{}, nil
}

// DeletePost removes a post after its likes and comments
func (s *postServiceImpl) DeletePost(ctx context.Context, channelID, postID string) error {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return err
	}

	repo := s.repos.Posts(channelID)
	posts, err := repo.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to load posts before delete")
		return nil
	}
	matched, rest := repo.Split(posts, postID)
	if len(matched) == 0 {
		return apperrors.NewNotFoundError("Post not found")
	}

	if err := deletePostDependents(ctx, s.repos, []string{postID}); err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to delete likes or comments, post kept")
		return nil
	}
	if err := repo.Write(ctx, rest); err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to delete post")
		return nil
	}

	s.logger.Info().Str("channelID", channelID).Str("postID", postID).Msg("Post deleted")
	return nil
}

// SetLike records whether the viewer likes a post. Repeating the current
// state changes nothing; the count never drops below zero.
func (s *postServiceImpl) SetLike(ctx context.Context, channelID, postID string, liked bool) (models.LikeRecord, error) {
	if _, err := s.findPost(ctx, channelID, postID); err != nil {
		return models.LikeRecord{}, err
	}

	likes, err := s.repos.PostLikes.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to load likes")
		return models.LikeRecord{}, nil
	}

	current := likes[postID]
	if current.Liked == liked {
		return current, nil
	}

	next := models.LikeRecord{Count: current.Count + 1, Liked: liked}
	if !liked {
		next.Count = max(0, current.Count-1)
	}

	stored := s.repos.PostLikes.Put(ctx, postID, next)
	return stored[postID], nil
}

// AddComment puts a comment at the top of a post's thread
func (s *postServiceImpl) AddComment(ctx context.Context, channelID, postID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, apperrors.NewValidationError("text", "Comment cannot be empty")
	}

	post, err := s.findPost(ctx, channelID, postID)
	if err != nil {
		return models.Comment{}, err
	}
	if !post.AllowComments {
		return models.Comment{}, apperrors.NewValidationError("allowComments", "Comments are disabled for this post")
	}

	all, err := s.repos.PostComments.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to load comments")
		return models.Comment{}, nil
	}

	thread := all[postID]
	ids := make([]string, len(thread))
	for i, c := range thread {
		ids[i] = c.ID
	}

	comment := models.Comment{
		ID:           s.repos.CommentIDs()(ids),
		Text:         text,
		Author:       models.DefaultCommentAuthor,
		Timestamp:    s.repos.Now().UTC(),
		AuthorAvatar: models.DefaultCommentAvatar,
	}

	updated := make([]models.Comment, 0, len(thread)+1)
	updated = append(updated, comment)
	updated = append(updated, thread...)

	stored := s.repos.PostComments.Put(ctx, postID, updated)
	if len(stored[postID]) != len(updated) {
		return models.Comment{}, nil
	}
	return comment, nil
}

// ListComments returns a post's comments, newest first
func (s *postServiceImpl) ListComments(ctx context.Context, channelID, postID string) ([]models.Comment, error) {
	if _, err := s.findPost(ctx, channelID, postID); err != nil {
		return nil, err
	}
	comments, _ := s.repos.PostComments.Get(ctx, postID)
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// LoadDraft returns the saved composer state, or nil
func (s *postServiceImpl) LoadDraft(ctx context.Context) *models.PostDraft {
	return s.repos.PostDraft.Load(ctx)
}

// SaveDraft stores the composer state
func (s *postServiceImpl) SaveDraft(ctx context.Context, draft models.PostDraft) {
	s.repos.PostDraft.Save(ctx, &draft)
}

// ClearDraft discards the composer state
func (s *postServiceImpl) ClearDraft(ctx context.Context) {
	s.repos.PostDraft.Clear(ctx)
}

// AdoptLegacyPosts moves posts from the channel-agnostic list into one
// channel. Posts the channel already has are skipped. The legacy list is
// removed once the channel's posts are saved.
func (s *postServiceImpl) AdoptLegacyPosts(ctx context.Context, channelID string) (int, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return 0, err
	}

	legacyRepo := s.repos.LegacyPosts()
	legacy, err := legacyRepo.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load legacy posts")
		return 0, nil
	}
	if len(legacy) == 0 {
		return 0, nil
	}

	repo := s.repos.Posts(channelID)
	posts, err := repo.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("channelID", channelID).Msg("Failed to load channel posts")
		return 0, nil
	}

	have := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		have[p.ID] = struct{}{}
	}

	merged := append([]models.Post{}, posts...)
	adopted := 0
	for _, p := range legacy {
		if _, ok := have[p.ID]; ok {
			continue
		}
		have[p.ID] = struct{}{}
		merged = append(merged, p)
		adopted++
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if adopted > 0 {
		if err := repo.Write(ctx, merged); err != nil {
			s.logger.Error().Err(err).Str("channelID", channelID).Msg("Failed to save adopted posts")
			return 0, nil
		}
	}
	if err := legacyRepo.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove legacy posts after adoption")
	}

	s.logger.Info().Str("channelID", channelID).Int("adopted", adopted).Msg("Legacy posts adopted")
	return adopted, nil
}
