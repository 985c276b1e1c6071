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

type TreeholeHandler struct {
	service service.TreeholeService
}

func NewTreeholeHandler(service service.TreeholeService) *TreeholeHandler {
	return &TreeholeHandler{service: service}
}

func (h *TreeholeHandler) CreatePost(c *gin.Context) {
	var req dto.TreeholePostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, req.Content, model.TreeholePostType(req.PostType))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *TreeholeHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), user, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (h *TreeholeHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *TreeholeHandler) ListPosts(c *gin.Context) {
	var postType *model.TreeholePostType
	if raw := c.Query("post_type"); raw != "" {
		pt := model.TreeholePostType(raw)
		if !pt.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post type"})
			return
		}
		postType = &pt
	}

	offset, limit := paginationParams(c)
	posts, total, err := h.service.ListPosts(c.Request.Context(), postType, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Items:  posts,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

func (h *TreeholeHandler) CreateComment(c *gin.Context) {
	var req dto.TreeholeCommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, req.PostID, req.Content, req.ParentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *TreeholeHandler) DeleteComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), user, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *TreeholeHandler) Thread(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	comments, err := h.service.GetThread(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
