package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/views"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/validation"
)

// ChannelService defines channel and channel permission operations
type ChannelService interface {
	ListChannels(ctx context.Context, query string) []models.Channel
	GetChannel(ctx context.Context, id string) (models.Channel, error)
	CreateChannel(ctx context.Context, name string, count int, channelType string) (models.Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	GetPermissions(ctx context.Context, channelName string) (models.PermissionSet, error)
	SetPermission(ctx context.Context, channelName string, permission models.Permission, value bool) (models.PermissionSet, error)
}

// channelServiceImpl implements ChannelService
type channelServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewChannelService creates a new ChannelService
func NewChannelService(repos *repositories.Repositories, logger zerolog.Logger) ChannelService {
	return &channelServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// ListChannels returns matching channels, highest batch first
func (s *channelServiceImpl) ListChannels(ctx context.Context, query string) []models.Channel {
	channels := views.FilterChannels(s.repos.Channels.LoadAll(ctx), query)
	return views.SortChannelsByBatch(channels)
}

// GetChannel returns one channel
func (s *channelServiceImpl) GetChannel(ctx context.Context, id string) (models.Channel, error) {
	return s.repos.Channels.FindByID(ctx, id)
}

// CreateChannel adds a channel at the front of the list. Names must be
// unique ignoring case and whitespace.
func (s *channelServiceImpl) CreateChannel(ctx context.Context, name string, count int, channelType string) (models.Channel, error) {
	name = strings.TrimSpace(name)
	channelType = strings.TrimSpace(channelType)

	if !validation.ValidName(name) {
		return models.Channel{}, apperrors.NewValidationError("name", "Channel name is required")
	}
	if channelType == "" {
		return models.Channel{}, apperrors.NewValidationError("type", "Channel type is required")
	}
	if !validation.ValidChannelCount(count) {
		return models.Channel{}, apperrors.NewValidationError("count", "Member count must be greater than zero")
	}

	channels, err := s.repos.Channels.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to load channels before create")
		return models.Channel{}, nil
	}

	wanted := views.CompactName(name)
	for _, ch := range channels {
		if views.CompactName(ch.Name) == wanted {
			return models.Channel{}, apperrors.NewDuplicateNameError(
				fmt.Sprintf("A channel with name %q already exists", name))
		}
	}

	created, next := s.repos.Channels.Insert(channels, models.Channel{Name: name, Count: count, Type: channelType})
	if !s.repos.Channels.SaveAll(ctx, next) {
		return models.Channel{}, nil
	}

	s.logger.Info().Str("channelID", created.ID).Str("name", created.Name).Msg("Channel created")
	return created, nil
}

// DeleteChannel removes a channel with everything stored under it.
// Dependents go first and the channel last, so a failed step never leaves
// a like, comment, post or permission set without its channel.
func (s *channelServiceImpl) DeleteChannel(ctx context.Context, id string) error {
	channels, err := s.repos.Channels.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("channelID", id).Msg("Failed to load channels before delete")
		return nil
	}
	matched, _ := s.repos.Channels.Split(channels, id)
	if len(matched) == 0 {
		return apperrors.NewNotFoundError("Channel not found")
	}
	channel := matched[0]
	log := s.logger.With().Str("channelID", channel.ID).Str("name", channel.Name).Logger()

	posts := s.repos.Posts(channel.ID)
	items, err := posts.Read(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load channel posts, channel kept")
		return nil
	}
	postIDs := make([]string, len(items))
	for i, p := range items {
		postIDs[i] = p.ID
	}

	if err := deletePostDependents(ctx, s.repos, postIDs); err != nil {
		log.Error().Err(err).Msg("Failed to delete post likes or comments, channel kept")
		return nil
	}
	if err := posts.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to delete channel posts, channel kept")
		return nil
	}
	if err := s.repos.Permissions(channel.Name).Remove(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to delete channel permissions, channel kept")
		return nil
	}

	// re-read: the list may have changed while dependents were removed
	channels, err = s.repos.Channels.Read(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reload channels before delete")
		return nil
	}
	_, rest := s.repos.Channels.Split(channels, id)
	if err := s.repos.Channels.Write(ctx, rest); err != nil {
		log.Error().Err(err).Msg("Failed to delete channel")
		return nil
	}

	log.Info().Int("posts", len(postIDs)).Msg("Channel deleted")
	return nil
}

// deletePostDependents removes the like and comment records of postIDs,
// writing each keyed collection at most once
func deletePostDependents(ctx context.Context, repos *repositories.Repositories, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}

	likes, err := repos.PostLikes.Read(ctx)
	if err != nil {
		return err
	}
	if next, removed := repositories.Without(likes, postIDs...); removed > 0 {
		if err := repos.PostLikes.Write(ctx, next); err != nil {
			return err
		}
	}

	comments, err := repos.PostComments.Read(ctx)
	if err != nil {
		return err
	}
	if next, removed := repositories.Without(comments, postIDs...); removed > 0 {
		if err := repos.PostComments.Write(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *channelServiceImpl) channelByName(ctx context.Context, name string) (models.Channel, error) {
	for _, ch := range s.repos.Channels.LoadAll(ctx) {
		if ch.Name == name {
			return ch, nil
		}
	}
	return models.Channel{}, apperrors.NewNotFoundError(fmt.Sprintf("Channel %q not found", name))
}

// GetPermissions returns the permission set of a channel
func (s *channelServiceImpl) GetPermissions(ctx context.Context, channelName string) (models.PermissionSet, error) {
	if _, err := s.channelByName(ctx, channelName); err != nil {
		return models.PermissionSet{}, err
	}
	return s.repos.Permissions(channelName).Load(ctx), nil
}

// SetPermission sets one permission of a channel. Granting any permission
// lifts "No Permissions"; revoking the last one restores it; setting "No
// Permissions" revokes everything.
func (s *channelServiceImpl) SetPermission(ctx context.Context, channelName string, permission models.Permission, value bool) (models.PermissionSet, error) {
	if !models.IsKnownPermission(permission) {
		return models.PermissionSet{}, apperrors.NewValidationError("permission",
			fmt.Sprintf("Unknown permission %q", permission))
	}
	if _, err := s.channelByName(ctx, channelName); err != nil {
		return models.PermissionSet{}, err
	}

	doc := s.repos.Permissions(channelName)
	current, _, err := doc.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("channel", channelName).Msg("Failed to load permissions before update")
		return models.NewPermissionSet(), nil
	}

	next := current.With(permission, value)
	if !doc.Save(ctx, next) {
		return current, nil
	}
	return next, nil
}
