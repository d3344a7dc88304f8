package controllers

import "github.com/yigit/unihub/internal/app/services"

// Controllers holds every HTTP controller
type Controllers struct {
	Club         *ClubController
	Channel      *ChannelController
	Post         *PostController
	Announcement *AnnouncementController
}

// NewControllers creates the controllers over svcs
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		Club:         NewClubController(svcs.ClubService),
		Channel:      NewChannelController(svcs.ChannelService),
		Post:         NewPostController(svcs.PostService),
		Announcement: NewAnnouncementController(svcs.AnnouncementService),
	}
}
