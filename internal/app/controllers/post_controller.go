package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/middleware"
)

// PostController handles channel posts, likes, comments and the composer draft
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// GetFeed lists a channel's posts with likes and comment counts
// @Summary Channel feed
// @Tags posts
// @Produce json
// @Param id path string true "Channel ID"
// @Param q query string false "Search text"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id}/posts [get]
func (c *PostController) GetFeed(ctx *gin.Context) {
	feed, err := c.postService.Feed(ctx, ctx.Param("id"), queryParam(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, feed)
}

// CreatePost publishes a post
// @Summary Publish post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param request body dto.PostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=models.Post}
// @Failure 400 {object} dto.ErrorResponse "Title or body out of range"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id}/posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	var req dto.PostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.CreatePost(ctx, ctx.Param("id"), req.ToDraft())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, post, post.ID != "")
}

// UpdatePost edits a post in place
// @Summary Edit post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param postId path string true "Post ID"
// @Param request body dto.PostRequest true "Post"
// @Success 200 {object} dto.APIResponse{data=models.Post}
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /channels/{id}/posts/{postId} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	var req dto.PostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.UpdatePost(ctx, ctx.Param("id"), ctx.Param("postId"), req.ToDraft())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, post)
}

// DeletePost removes a post with its likes and comments
// @Summary Delete post
// @Tags posts
// @Param id path string true "Channel ID"
// @Param postId path string true "Post ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /channels/{id}/posts/{postId} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	if err := c.postService.DeletePost(ctx, ctx.Param("id"), ctx.Param("postId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SetLike sets the viewer's like on a post
// @Summary Like or unlike post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param postId path string true "Post ID"
// @Param request body dto.LikeRequest true "Like state"
// @Success 200 {object} dto.APIResponse{data=models.LikeRecord}
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /channels/{id}/posts/{postId}/like [put]
func (c *PostController) SetLike(ctx *gin.Context) {
	var req dto.LikeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.postService.SetLike(ctx, ctx.Param("id"), ctx.Param("postId"), *req.Liked)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, record)
}

// GetComments lists a post's comments, newest first
// @Summary List comments
// @Tags posts
// @Produce json
// @Param id path string true "Channel ID"
// @Param postId path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /channels/{id}/posts/{postId}/comments [get]
func (c *PostController) GetComments(ctx *gin.Context) {
	comments, err := c.postService.ListComments(ctx, ctx.Param("id"), ctx.Param("postId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, comments)
}

// AddComment comments on a post
// @Summary Add comment
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param postId path string true "Post ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.Comment}
// @Failure 400 {object} dto.ErrorResponse "Comments are disabled"
// @Router /channels/{id}/posts/{postId}/comments [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	var req dto.CommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.postService.AddComment(ctx, ctx.Param("id"), ctx.Param("postId"), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, comment, comment.ID != "")
}

// AdoptLegacyPosts moves posts from the pre-partition list into a channel
// @Summary Adopt legacy posts
// @Tags posts
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} dto.APIResponse
// @Router /channels/{id}/posts/adopt-legacy [post]
func (c *PostController) AdoptLegacyPosts(ctx *gin.Context) {
	adopted, err := c.postService.AdoptLegacyPosts(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{"adopted": adopted})
}

// GetDraft returns the saved composer draft
// @Summary Get post draft
// @Tags post-draft
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.PostDraft}
// @Failure 404 {object} dto.ErrorResponse "No draft saved"
// @Router /post-draft [get]
func (c *PostController) GetDraft(ctx *gin.Context) {
	draft := c.postService.LoadDraft(ctx)
	if draft == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "No draft saved")
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
		return
	}
	respond(ctx, http.StatusOK, draft)
}

// SaveDraft stores the composer state
// @Summary Save post draft
// @Tags post-draft
// @Accept json
// @Param request body dto.DraftRequest true "Draft"
// @Success 204
// @Router /post-draft [put]
func (c *PostController) SaveDraft(ctx *gin.Context) {
	var req dto.DraftRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.postService.SaveDraft(ctx, req.ToModel())
	ctx.Status(http.StatusNoContent)
}

// ClearDraft discards the composer draft
// @Summary Clear post draft
// @Tags post-draft
// @Success 204
// @Router /post-draft [delete]
func (c *PostController) ClearDraft(ctx *gin.Context) {
	c.postService.ClearDraft(ctx)
	ctx.Status(http.StatusNoContent)
}
