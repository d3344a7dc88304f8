package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/middleware"
)

// ClubController handles clubs and the club approval queue
type ClubController struct {
	clubService services.ClubService
}

// NewClubController creates a new ClubController
func NewClubController(clubService services.ClubService) *ClubController {
	return &ClubController{
		clubService: clubService,
	}
}

// GetAllClubs lists clubs
// @Summary List clubs
// @Description Lists clubs, optionally filtered by name, about or member count
// @Tags clubs
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size, 0 for all"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /clubs [get]
func (c *ClubController) GetAllClubs(ctx *gin.Context) {
	respondList(ctx, c.clubService.ListClubs(ctx, queryParam(ctx)))
}

// GetClubByID retrieves a club
// @Summary Get club
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=models.Club}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /clubs/{id} [get]
func (c *ClubController) GetClubByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Club")
	if !ok {
		return
	}

	club, err := c.clubService.GetClub(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, club)
}

// CreateClub handles club creation
// @Summary Create club
// @Tags clubs
// @Accept json
// @Produce json
// @Param request body dto.CreateClubRequest true "Club"
// @Success 201 {object} dto.APIResponse{data=models.Club}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /clubs [post]
func (c *ClubController) CreateClub(ctx *gin.Context) {
	var req dto.CreateClubRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	club, err := c.clubService.CreateClub(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, club, club.ID != 0)
}

// UpdateClub replaces a club's fields
// @Summary Update club
// @Tags clubs
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body dto.CreateClubRequest true "Club"
// @Success 200 {object} dto.APIResponse{data=models.Club}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /clubs/{id} [put]
func (c *ClubController) UpdateClub(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Club")
	if !ok {
		return
	}
	var req dto.CreateClubRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	club, err := c.clubService.UpdateClub(ctx, id, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, club)
}

// DeleteClub removes a club
// @Summary Delete club
// @Tags clubs
// @Param id path int true "Club ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /clubs/{id} [delete]
func (c *ClubController) DeleteClub(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Club")
	if !ok {
		return
	}

	if err := c.clubService.DeleteClub(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetQueue lists pending club requests
// @Summary List club requests
// @Tags club-queue
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /club-queue [get]
func (c *ClubController) GetQueue(ctx *gin.Context) {
	respondList(ctx, c.clubService.ListQueue(ctx, queryParam(ctx)))
}

// SubmitRequest adds a club request to the queue
// @Summary Request a new club
// @Tags club-queue
// @Accept json
// @Produce json
// @Param request body dto.QueueRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=models.QueueEntry}
// @Router /club-queue [post]
func (c *ClubController) SubmitRequest(ctx *gin.Context) {
	var req dto.QueueRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.clubService.SubmitRequest(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, entry, entry.ID != 0)
}

// ApproveRequest turns one queue entry into a club
// @Summary Approve club request
// @Tags club-queue
// @Produce json
// @Param id path int true "Queue entry ID"
// @Success 201 {object} dto.APIResponse{data=models.Club}
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /club-queue/{id}/approve [post]
func (c *ClubController) ApproveRequest(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Request")
	if !ok {
		return
	}

	club, err := c.clubService.ApproveQueueEntry(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, club, club.ID != 0)
}

// RejectRequest drops one queue entry
// @Summary Reject club request
// @Tags club-queue
// @Param id path int true "Queue entry ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /club-queue/{id}/reject [post]
func (c *ClubController) RejectRequest(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Request")
	if !ok {
		return
	}

	if err := c.clubService.RejectQueueEntry(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ApproveRequests approves several queue entries at once
// @Summary Approve club requests in bulk
// @Tags club-queue
// @Accept json
// @Produce json
// @Param request body dto.BulkIDsRequest true "Queue entry IDs"
// @Success 200 {object} dto.APIResponse{data=[]models.Club}
// @Router /club-queue/approve [post]
func (c *ClubController) ApproveRequests(ctx *gin.Context) {
	var req dto.BulkIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	respond(ctx, http.StatusOK, c.clubService.ApproveQueueEntries(ctx, req.IDs))
}

// RejectRequests rejects several queue entries at once and returns the remaining queue
// @Summary Reject club requests in bulk
// @Tags club-queue
// @Accept json
// @Produce json
// @Param request body dto.BulkIDsRequest true "Queue entry IDs"
// @Success 200 {object} dto.APIResponse{data=[]models.QueueEntry}
// @Router /club-queue/reject [post]
func (c *ClubController) RejectRequests(ctx *gin.Context) {
	var req dto.BulkIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	respond(ctx, http.StatusOK, c.clubService.RejectQueueEntries(ctx, req.IDs))
}
