package handlers

import (
	"net/http"

	"homeserve/services/catalog"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves services and subservices.
type CatalogHandler struct {
	CatalogService catalog.CatalogService
}

func NewCatalogHandler(cs catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogService: cs}
}

// ListServices handles GET /api/services?search=.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	page, err := h.CatalogService.ListServices(c.Request.Context(), c.Query("search"), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	s, err := h.CatalogService.GetService(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListSubservicesOfService handles GET /api/services/:serviceId/subservices.
func (h *CatalogHandler) ListSubservicesOfService(c *gin.Context) {
	page, err := h.CatalogService.ListSubservices(c.Request.Context(), c.Param("serviceId"), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var in catalog.ServiceInput
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.CatalogService.CreateService(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service created", zap.String("serviceID", s.ID))
	c.JSON(http.StatusCreated, s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var patch catalog.ServicePatch
	if !bindJSON(c, &patch) {
		return
	}
	s, err := h.CatalogService.UpdateService(c.Request.Context(), c.Param("serviceId"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.CatalogService.DeleteService(c.Request.Context(), c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// ListSubservices handles GET /api/subservices?serviceId=.
func (h *CatalogHandler) ListSubservices(c *gin.Context) {
	page, err := h.CatalogService.ListSubservices(c.Request.Context(), c.Query("serviceId"), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) GetSubservice(c *gin.Context) {
	s, err := h.CatalogService.GetSubservice(c.Request.Context(), c.Param("subserviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *CatalogHandler) CreateSubservice(c *gin.Context) {
	var in catalog.SubserviceInput
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.CatalogService.CreateSubservice(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("subservice created", zap.String("subserviceID", s.ID), zap.String("serviceID", s.ServiceID))
	c.JSON(http.StatusCreated, s)
}

func (h *CatalogHandler) UpdateSubservice(c *gin.Context) {
	var patch catalog.ServicePatch
	if !bindJSON(c, &patch) {
		return
	}
	s, err := h.CatalogService.UpdateSubservice(c.Request.Context(), c.Param("subserviceId"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *CatalogHandler) DeleteSubservice(c *gin.Context) {
	if err := h.CatalogService.DeleteSubservice(c.Request.Context(), c.Param("subserviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subservice deleted successfully"})
}
