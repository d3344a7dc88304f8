package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/controllers"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	wsHandler *websocket.Handler,
) {
	// API version group
	v1 := router.Group("/api/v1")

	clubs := v1.Group("/clubs")
	{
		clubs.GET("", ctrls.Club.GetAllClubs)
		clubs.POST("", ctrls.Club.CreateClub)
		clubs.GET("/:id", ctrls.Club.GetClubByID)
		clubs.PUT("/:id", ctrls.Club.UpdateClub)
		clubs.DELETE("/:id", ctrls.Club.DeleteClub)
	}

	queue := v1.Group("/club-queue")
	{
		queue.GET("", ctrls.Club.GetQueue)
		queue.POST("", ctrls.Club.SubmitRequest)
		queue.POST("/approve", ctrls.Club.ApproveRequests) // body {ids:[...]}
		queue.POST("/reject", ctrls.Club.RejectRequests)
		queue.POST("/:id/approve", ctrls.Club.ApproveRequest)
		queue.POST("/:id/reject", ctrls.Club.RejectRequest)
	}

	channels := v1.Group("/channels")
	{
		channels.GET("", ctrls.Channel.GetAllChannels)
		channels.POST("", ctrls.Channel.CreateChannel)
		channels.GET("/:id", ctrls.Channel.GetChannelByID)
		channels.DELETE("/:id", ctrls.Channel.DeleteChannel)
		channels.GET("/:id/permissions", ctrls.Channel.GetPermissions)
		channels.PUT("/:id/permissions", ctrls.Channel.SetPermission)

		posts := channels.Group("/:id/posts")
		{
			posts.GET("", ctrls.Post.GetFeed)
			posts.POST("", ctrls.Post.CreatePost)
			posts.POST("/adopt-legacy", ctrls.Post.AdoptLegacyPosts)
			posts.PUT("/:postId", ctrls.Post.UpdatePost)
			posts.DELETE("/:postId", ctrls.Post.DeletePost)
			posts.PUT("/:postId/like", ctrls.Post.SetLike)
			posts.GET("/:postId/comments", ctrls.Post.GetComments)
			posts.POST("/:postId/comments", ctrls.Post.AddComment)
		}
	}

	draft := v1.Group("/post-draft")
	{
		draft.GET("", ctrls.Post.GetDraft)
		draft.PUT("", ctrls.Post.SaveDraft)
		draft.DELETE("", ctrls.Post.ClearDraft)
	}

	announcements := v1.Group("/announcements")
	{
		announcements.GET("", ctrls.Announcement.GetAllAnnouncements)
		announcements.POST("", ctrls.Announcement.CreateAnnouncement)
		announcements.GET("/:id", ctrls.Announcement.GetAnnouncementByID)
		announcements.PUT("/:id", ctrls.Announcement.UpdateAnnouncement)
		announcements.DELETE("/:id", ctrls.Announcement.DeleteAnnouncement)
	}

	catalog := v1.Group("/catalog")
	{
		catalog.GET("/faculties", ctrls.Announcement.GetFaculties)
		catalog.GET("/faculties/:faculty/departments", ctrls.Announcement.GetDepartments)
		catalog.GET("/batches", ctrls.Announcement.GetBatches)
	}

	// Change feed
	if wsHandler != nil {
		v1.GET("/changes/ws", wsHandler.HandleConnection)
	}

	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success:   true,
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
