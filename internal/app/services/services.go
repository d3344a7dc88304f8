package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/app/repositories"
)

// Services holds all the service instances
type Services struct {
	ClubService         ClubService
	ChannelService      ChannelService
	PostService         PostService
	AnnouncementService AnnouncementService
}

// NewServices initializes all services over repos
func NewServices(repos *repositories.Repositories, logger zerolog.Logger) *Services {
	return &Services{
		ClubService:         NewClubService(repos, logger.With().Str("service", "club").Logger()),
		ChannelService:      NewChannelService(repos, logger.With().Str("service", "channel").Logger()),
		PostService:         NewPostService(repos, logger.With().Str("service", "post").Logger()),
		AnnouncementService: NewAnnouncementService(repos, logger.With().Str("service", "announcement").Logger()),
	}
}
