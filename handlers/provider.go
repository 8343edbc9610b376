package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/services/provider"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const maxDocumentSize = 5 << 20

// ProviderHandler serves admin management of service providers.
type ProviderHandler struct {
	ProviderService provider.ProviderService
}

func NewProviderHandler(ps provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{ProviderService: ps}
}

// documentFiles opens the optional identity images of a multipart request.
// The returned closer must run once the service call is done.
func documentFiles(c *gin.Context) (provider.DocumentUploads, func(), error) {
	var (
		docs   provider.DocumentUploads
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	open := func(field string) (io.Reader, error) {
		header, err := c.FormFile(field)
		if err == http.ErrMissingFile {
			return nil, nil
		}
		if err != nil {
			return nil, utils.NewValidationError("Invalid upload for " + field)
		}
		if header.Size > maxDocumentSize {
			return nil, utils.NewValidationError(field + " must not exceed 5MB")
		}
		if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return nil, utils.NewValidationError(field + " must be an image")
		}
		f, err := header.Open()
		if err != nil {
			return nil, utils.NewValidationError("Invalid upload for " + field)
		}
		opened = append(opened, f)
		return f, nil
	}

	var err error
	if docs.AadhaarCard, err = open("aadhaarCardImage"); err != nil {
		closeAll()
		return docs, func() {}, err
	}
	if docs.PanCard, err = open("panCardImage"); err != nil {
		closeAll()
		return docs, func() {}, err
	}
	if docs.PassportPhoto, err = open("passportPhoto"); err != nil {
		closeAll()
		return docs, func() {}, err
	}
	return docs, closeAll, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// Create handles POST /api/service-providers. Multipart requests carry the
// provider as JSON in the "data" field next to the document images.
func (h *ProviderHandler) Create(c *gin.Context) {
	var (
		in   provider.CreateProviderInput
		docs provider.DocumentUploads
	)
	if isMultipart(c) {
		raw := c.PostForm("data")
		if raw == "" {
			utils.RespondError(c, utils.NewValidationError("Provider data is required"))
			return
		}
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			utils.RespondError(c, utils.NewValidationError("Invalid provider data: "+err.Error()))
			return
		}
		if err := binding.Validator.ValidateStruct(&in); err != nil {
			utils.RespondError(c, utils.NewValidationError(utils.TranslateValidationError(err)))
			return
		}
		var (
			closeAll func()
			err      error
		)
		docs, closeAll, err = documentFiles(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		defer closeAll()
	} else if !bindJSON(c, &in) {
		return
	}

	adminID := principal(c).ID
	p, err := h.ProviderService.Create(c.Request.Context(), adminID, in, docs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service provider created", zap.String("providerID", p.ID), zap.String("by", adminID))
	c.JSON(http.StatusCreated, p)
}

// List handles GET /api/service-providers with optional filters.
func (h *ProviderHandler) List(c *gin.Context) {
	filter := providerRepo.ProviderFilter{
		Status:             models.ProviderStatus(c.Query("status")),
		ServiceID:          c.Query("serviceId"),
		SubserviceID:       c.Query("subserviceId"),
		VerificationStatus: c.Query("verificationStatus"),
		Search:             strings.TrimSpace(c.Query("search")),
	}
	page, err := h.ProviderService.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProviderHandler) Get(c *gin.Context) {
	p, err := h.ProviderService.GetByID(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	var patch provider.ProviderPatch
	if !bindJSON(c, &patch) {
		return
	}
	p, err := h.ProviderService.Update(c.Request.Context(), c.Param("providerId"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadDocuments handles PUT /api/service-providers/:providerId/documents.
func (h *ProviderHandler) UploadDocuments(c *gin.Context) {
	if !isMultipart(c) {
		utils.RespondError(c, utils.NewValidationError("Documents must be sent as multipart/form-data"))
		return
	}
	docs, closeAll, err := documentFiles(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer closeAll()

	p, err := h.ProviderService.UploadDocuments(c.Request.Context(), c.Param("providerId"), docs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	id := c.Param("providerId")
	if err := h.ProviderService.Delete(c.Request.Context(), id, principal(c).ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service provider deleted", zap.String("providerID", id))
	c.JSON(http.StatusOK, gin.H{"message": "Service provider deleted successfully"})
}

// Verify handles PATCH /api/service-providers/:providerId/verify.
func (h *ProviderHandler) Verify(c *gin.Context) {
	var in provider.VerifyInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.ProviderService.Verify(c.Request.Context(), c.Param("providerId"), principal(c).ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// VerifyDocument handles PATCH /api/service-providers/:providerId/verify-documents.
func (h *ProviderHandler) VerifyDocument(c *gin.Context) {
	var in provider.VerifyDocumentInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.ProviderService.VerifyDocument(c.Request.Context(), c.Param("providerId"), principal(c).ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Suspend(c *gin.Context) {
	var in provider.SuspendInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	p, err := h.ProviderService.Suspend(c.Request.Context(), c.Param("providerId"), principal(c).ID, in.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service provider suspended", zap.String("providerID", p.ID))
	c.JSON(http.StatusOK, p)
}

// Available handles POST /api/service-providers/available.
func (h *ProviderHandler) Available(c *gin.Context) {
	var in provider.AvailabilityCriteria
	if !bindJSON(c, &in) {
		return
	}
	providers, err := h.ProviderService.AvailableProviders(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(providers), "providers": providers})
}

// Assign handles POST /api/service-providers/:providerId/assign/:bookingId.
func (h *ProviderHandler) Assign(c *gin.Context) {
	b, err := h.ProviderService.AssignToBooking(c.Request.Context(), c.Param("providerId"), c.Param("bookingId"), principal(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *ProviderHandler) Stats(c *gin.Context) {
	stats, err := h.ProviderService.Stats(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
