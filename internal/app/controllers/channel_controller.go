package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/models"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/middleware"
)

// ChannelController handles channels and their permissions
type ChannelController struct {
	channelService services.ChannelService
}

// NewChannelController creates a new ChannelController
func NewChannelController(channelService services.ChannelService) *ChannelController {
	return &ChannelController{
		channelService: channelService,
	}
}

// GetAllChannels lists channels, highest batch first
// @Summary List channels
// @Tags channels
// @Produce json
// @Param q query string false "Search text, whitespace-insensitive"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /channels [get]
func (c *ChannelController) GetAllChannels(ctx *gin.Context) {
	respondList(ctx, c.channelService.ListChannels(ctx, queryParam(ctx)))
}

// GetChannelByID retrieves a channel
// @Summary Get channel
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} dto.APIResponse{data=models.Channel}
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id} [get]
func (c *ChannelController) GetChannelByID(ctx *gin.Context) {
	channel, err := c.channelService.GetChannel(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, channel)
}

// CreateChannel creates a channel with default permissions
// @Summary Create channel
// @Tags channels
// @Accept json
// @Produce json
// @Param request body dto.CreateChannelRequest true "Channel"
// @Success 201 {object} dto.APIResponse{data=models.Channel}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Channel already exists"
// @Router /channels [post]
func (c *ChannelController) CreateChannel(ctx *gin.Context) {
	var req dto.CreateChannelRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	channel, err := c.channelService.CreateChannel(ctx, req.Name, req.Count, req.Type)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, channel, channel.ID != "")
}

// DeleteChannel removes a channel with its posts, likes, comments and permissions
// @Summary Delete channel
// @Tags channels
// @Param id path string true "Channel ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id} [delete]
func (c *ChannelController) DeleteChannel(ctx *gin.Context) {
	if err := c.channelService.DeleteChannel(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetPermissions shows a channel's permissions
// @Summary Get channel permissions
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} dto.APIResponse{data=dto.PermissionsResponse}
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id}/permissions [get]
func (c *ChannelController) GetPermissions(ctx *gin.Context) {
	channel, err := c.channelService.GetChannel(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	set, err := c.channelService.GetPermissions(ctx, channel.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewPermissionsResponse(channel.Name, set))
}

// SetPermission toggles one permission
// @Summary Set channel permission
// @Description Granting any permission clears "No Permissions"; setting "No Permissions" revokes all grants
// @Tags channels
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param request body dto.SetPermissionRequest true "Permission toggle"
// @Success 200 {object} dto.APIResponse{data=dto.PermissionsResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown permission"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /channels/{id}/permissions [put]
func (c *ChannelController) SetPermission(ctx *gin.Context) {
	var req dto.SetPermissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	channel, err := c.channelService.GetChannel(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	set, err := c.channelService.SetPermission(ctx, channel.Name, models.Permission(req.Permission), *req.Value)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewPermissionsResponse(channel.Name, set))
}
