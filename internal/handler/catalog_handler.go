package handler

import (
	"net/http"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/service"
	"campuslink.cn/community/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var teacher model.Teacher
	if err := c.ShouldBindJSON(&teacher); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.CreateTeacher(c.Request.Context(), user, &teacher); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

func (h *CatalogHandler) GetTeacher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	teacher, err := h.service.GetTeacher(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteTeacher(c.Request.Context(), user, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "teacher deleted"})
}

func (h *CatalogHandler) CreateCanteen(c *gin.Context) {
	var canteen model.Canteen
	if err := c.ShouldBindJSON(&canteen); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.CreateCanteen(c.Request.Context(), user, &canteen); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, canteen)
}

func (h *CatalogHandler) GetCanteen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid canteen id"})
		return
	}

	canteen, err := h.service.GetCanteen(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, canteen)
}

func (h *CatalogHandler) ListCanteens(c *gin.Context) {
	canteens, err := h.service.ListCanteens(c.Request.Context(), c.Query("building"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, canteens)
}

func (h *CatalogHandler) DeleteCanteen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid canteen id"})
		return
	}

	user, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteCanteen(c.Request.Context(), user, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "canteen deleted"})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
