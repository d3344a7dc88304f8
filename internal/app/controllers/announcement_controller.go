package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/middleware"
)

// AnnouncementController handles announcements and the faculty catalog
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

// GetAllAnnouncements lists announcements, newest first
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Param q query string false "Search title or content"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /announcements [get]
func (c *AnnouncementController) GetAllAnnouncements(ctx *gin.Context) {
	respondList(ctx, c.announcementService.ListAnnouncements(ctx, queryParam(ctx)))
}

// GetAnnouncementByID retrieves an announcement
// @Summary Get announcement
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=models.Announcement}
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncementByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Announcement")
	if !ok {
		return
	}

	ann, err := c.announcementService.GetAnnouncement(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ann)
}

// CreateAnnouncement publishes an announcement
// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement}
// @Failure 400 {object} dto.ErrorResponse "Invalid audience"
// @Router /announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.AnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ann, err := c.announcementService.CreateAnnouncement(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, ann, ann.ID != 0)
}

// UpdateAnnouncement edits an announcement
// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Success 200 {object} dto.APIResponse{data=models.Announcement}
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Announcement")
	if !ok {
		return
	}
	var req dto.AnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ann, err := c.announcementService.UpdateAnnouncement(ctx, id, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ann)
}

// DeleteAnnouncement removes an announcement
// @Summary Delete announcement
// @Tags announcements
// @Param id path int true "Announcement ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Announcement")
	if !ok {
		return
	}

	if err := c.announcementService.DeleteAnnouncement(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetFaculties lists the faculties an announcement can target
// @Summary List faculties
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /catalog/faculties [get]
func (c *AnnouncementController) GetFaculties(ctx *gin.Context) {
	respond(ctx, http.StatusOK, c.announcementService.Faculties())
}

// GetDepartments lists a faculty's departments
// @Summary List departments of a faculty
// @Tags catalog
// @Produce json
// @Param faculty path string true "Faculty name"
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /catalog/faculties/{faculty}/departments [get]
func (c *AnnouncementController) GetDepartments(ctx *gin.Context) {
	departments, err := c.announcementService.Departments(ctx.Param("faculty"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, departments)
}

// GetBatches lists the batches an announcement can target
// @Summary List batches
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /catalog/batches [get]
func (c *AnnouncementController) GetBatches(ctx *gin.Context) {
	respond(ctx, http.StatusOK, c.announcementService.Batches())
}
