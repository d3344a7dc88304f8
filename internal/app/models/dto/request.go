package dto

import "github.com/yigit/unihub/internal/app/models"

// CreateClubRequest represents a club creation or full edit
type CreateClubRequest struct {
	Name    string  `json:"name" binding:"required,max=100" example:"Robotics"`
	Leader  string  `json:"leader" binding:"max=100" example:"Mustafa"`
	Members int     `json:"members" binding:"min=0" example:"12"`
	About   string  `json:"about" binding:"max=1000" example:"Build and race robots"`
	Image   *string `json:"image"`
}

// ToModel converts the request to a club without id
func (r CreateClubRequest) ToModel() models.Club {
	return models.Club{
		Name:    r.Name,
		Leader:  r.Leader,
		Members: r.Members,
		About:   r.About,
		Image:   r.Image,
	}
}

// QueueRequest represents a student asking to open a club
type QueueRequest struct {
	Student string `json:"student" binding:"required,max=100" example:"Dacar"`
	Batch   string `json:"batch" binding:"required,max=20" example:"B13"`
	Request string `json:"request" binding:"required,max=100" example:"AI"`
}

// ToModel converts the request to a queue entry without id
func (r QueueRequest) ToModel() models.QueueEntry {
	return models.QueueEntry{Student: r.Student, Batch: r.Batch, Request: r.Request}
}

// BulkIDsRequest selects several queue entries at once
type BulkIDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,min=1"`
}

// CreateChannelRequest represents a new channel
type CreateChannelRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Batch 14"`
	Count int    `json:"count" binding:"required,min=1" example:"30"`
	Type  string `json:"type" binding:"required,max=50" example:"Batch"`
}

// SetPermissionRequest toggles one permission of a channel
type SetPermissionRequest struct {
	Permission string `json:"permission" binding:"required" example:"Create Posts"`
	Value      *bool  `json:"value" binding:"required"`
}

// PermissionsResponse shows a channel's permissions as flags
type PermissionsResponse struct {
	Channel     string                     `json:"channel"`
	Permissions map[models.Permission]bool `json:"permissions"`
	Grants      []models.Permission        `json:"grants"`
}

// NewPermissionsResponse builds the response for a channel
func NewPermissionsResponse(channel string, set models.PermissionSet) PermissionsResponse {
	return PermissionsResponse{
		Channel:     channel,
		Permissions: set.Flags(),
		Grants:      set.Grants(),
	}
}

// PostRequest represents a post being published or edited
type PostRequest struct {
	Title         string  `json:"title" binding:"required" example:"Midterm study group"`
	Body          string  `json:"body" binding:"required" example:"Meet in the library at 5pm on Thursday."`
	AllowComments *bool   `json:"allowComments"`
	ImageURI      *string `json:"imageUri"`
}

// ToDraft converts the request into the composer state. Comments are
// allowed unless explicitly disabled.
func (r PostRequest) ToDraft() models.PostDraft {
	allow := true
	if r.AllowComments != nil {
		allow = *r.AllowComments
	}
	return models.PostDraft{
		Title:         r.Title,
		Body:          r.Body,
		AllowComments: allow,
		ImageURI:      r.ImageURI,
	}
}

// LikeRequest sets the viewer's like on a post
type LikeRequest struct {
	Liked *bool `json:"liked" binding:"required"`
}

// CommentRequest represents a new comment
type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000" example:"Count me in"`
}

// AnnouncementRequest represents an announcement being created or edited
type AnnouncementRequest struct {
	Title      string  `json:"title" binding:"required,max=200" example:"Library Extended Hours"`
	Content    string  `json:"content" binding:"required" example:"The library stays open until midnight."`
	Priority   bool    `json:"priority"`
	Image      *string `json:"image"`
	Faculty    string  `json:"faculty" example:"Arts"`
	Department string  `json:"department" example:"History"`
	Batch      string  `json:"batch" example:"Batch 16"`
}

// ToModel converts the request to an announcement without id
func (r AnnouncementRequest) ToModel() models.Announcement {
	return models.Announcement{
		Title:      r.Title,
		Content:    r.Content,
		Priority:   r.Priority,
		Image:      r.Image,
		Faculty:    r.Faculty,
		Department: r.Department,
		Batch:      r.Batch,
	}
}

// DraftRequest saves the composer state
type DraftRequest struct {
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	AllowComments *bool   `json:"allowComments"`
	ImageURI      *string `json:"imageUri"`
}

// ToModel converts the request to a draft
func (r DraftRequest) ToModel() models.PostDraft {
	return PostRequest{
		Title:         r.Title,
		Body:          r.Body,
		AllowComments: r.AllowComments,
		ImageURI:      r.ImageURI,
	}.ToDraft()
}
