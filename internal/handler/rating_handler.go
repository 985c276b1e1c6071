package handler

import (
	"net/http"

	"campuslink.cn/community/internal/dto"
	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/service"
	"campuslink.cn/community/pkg/apperror"
	"campuslink.cn/community/pkg/response"
	"campuslink.cn/community/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	service service.RatingService
}

func NewRatingHandler(service service.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

func (h *RatingHandler) Create(c *gin.Context) {
	var req dto.RatingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	// Only verified users may rate.
	if !user.IsVerified {
		response.ResponseError(c, apperror.ErrForbidden)
		return
	}

	rating, err := h.service.Create(c.Request.Context(), user.ID, service.RatingInput{
		TargetType:  model.TargetType(req.TargetType),
		TargetID:    req.TargetID,
		Score:       req.Score,
		Comment:     req.Comment,
		TagIDs:      req.TagIDs,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) Update(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	var req dto.RatingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	rating, err := h.service.Update(c.Request.Context(), userID, ratingID, service.RatingUpdateInput{
		Score:       req.Score,
		Comment:     req.Comment,
		TagIDs:      req.TagIDs,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) Delete(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, ratingID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

func (h *RatingHandler) MarkHelpful(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.MarkHelpful(c.Request.Context(), userID, ratingID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RatingHandler) Statistics(c *gin.Context) {
	kind := model.TargetType(c.Query("target_type"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target reference"})
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), kind, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RatingHandler) ListByTarget(c *gin.Context) {
	kind := model.TargetType(c.Query("target_type"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil || !kind.Rateable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target reference"})
		return
	}

	offset, limit := paginationParams(c)
	ratings, total, err := h.service.ListByTarget(c.Request.Context(), kind, targetID, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Items:  ratings,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

func (h *RatingHandler) MyRatings(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ratings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) ListTags(c *gin.Context) {
	var category *model.TagCategory
	if raw := c.Query("category"); raw != "" {
		cat := model.TagCategory(raw)
		category = &cat
	}

	tags, err := h.service.ListTags(c.Request.Context(), category)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}
