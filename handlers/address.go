package handlers

import (
	"net/http"

	"homeserve/services/address"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
)

// AddressHandler serves the caller's saved addresses.
type AddressHandler struct {
	AddressService address.AddressService
}

func NewAddressHandler(as address.AddressService) *AddressHandler {
	return &AddressHandler{AddressService: as}
}

func (h *AddressHandler) Create(c *gin.Context) {
	var in address.AddressInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.AddressService.Create(c.Request.Context(), principal(c).ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AddressHandler) List(c *gin.Context) {
	page, err := h.AddressService.List(c.Request.Context(), principal(c).ID, pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AddressHandler) Get(c *gin.Context) {
	a, err := h.AddressService.Get(c.Request.Context(), c.Param("addressId"), principal(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AddressHandler) Update(c *gin.Context) {
	var patch address.AddressPatch
	if !bindJSON(c, &patch) {
		return
	}
	a, err := h.AddressService.Update(c.Request.Context(), c.Param("addressId"), principal(c).ID, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.AddressService.Delete(c.Request.Context(), c.Param("addressId"), principal(c).ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}
