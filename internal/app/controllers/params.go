package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unihub/internal/app/models/dto"
	"github.com/yigit/unihub/internal/middleware"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/helpers"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// a 400 response and returns false.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// respondList writes one page of items filtered by the caller
func respondList[T any](ctx *gin.Context, items []T) {
	page, size := helpers.ParsePaginationParams(ctx)
	pageItems, info := helpers.Paginate(items, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data: dto.PageResponse{
			Items:      pageItems,
			Pagination: info,
		},
		Timestamp: time.Now(),
	})
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondCreated writes 201 with item. Services hand back an item without
// an id when storage failed, which is reported as a storage error instead.
func respondCreated(ctx *gin.Context, item interface{}, stored bool) {
	if !stored {
		middleware.HandleAPIError(ctx, apperrors.ErrStorageWrite)
		return
	}
	respond(ctx, http.StatusCreated, item)
}

func queryParam(ctx *gin.Context) string {
	return strings.TrimSpace(ctx.Query("q"))
}
