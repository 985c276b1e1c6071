package handler

import (
	"net/http"

	"campuslink.cn/community/internal/dto"
	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/service"
	"campuslink.cn/community/pkg/response"
	"campuslink.cn/community/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	service service.LikeService
}

func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) Toggle(c *gin.Context) {
	var req dto.ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), userID, model.TargetType(req.TargetType), req.TargetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *LikeHandler) Status(c *gin.Context) {
	kind := model.TargetType(c.Query("target_type"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil || !kind.Likeable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target reference"})
		return
	}

	count, err := h.service.Count(c.Request.Context(), kind, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	liked := false
	if userID, err := response.GetUserID(c); err == nil {
		liked, err = h.service.IsLiked(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "count": count})
}
