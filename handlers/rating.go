package handlers

import (
	"net/http"
	"strconv"

	"homeserve/models"
	"homeserve/services/rating"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBacklogLimit = 500

// RatingHandler serves client ratings, moderation and subservice averages.
type RatingHandler struct {
	RatingService rating.RatingService
}

func NewRatingHandler(rs rating.RatingService) *RatingHandler {
	return &RatingHandler{RatingService: rs}
}

func ratingStatusQuery(c *gin.Context) models.RatingStatus {
	return models.RatingStatus(c.Query("status"))
}

// CreateRating handles POST /api/ratings/booking/:bookingId. One rating is stored per subservice.
func (h *RatingHandler) CreateRating(c *gin.Context) {
	var in rating.CreateRatingInput
	if !bindJSON(c, &in) {
		return
	}
	bookingID := c.Param("bookingId")
	ratings, err := h.RatingService.Create(c.Request.Context(), bookingID, principal(c).ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("ratings created", zap.String("bookingID", bookingID), zap.Int("count", len(ratings)))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Rating submitted successfully",
		"ratings": ratings,
	})
}

func (h *RatingHandler) MyRatings(c *gin.Context) {
	page, err := h.RatingService.ListForUser(c.Request.Context(), principal(c).ID, ratingStatusQuery(c), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetRating is visible to the author and to admins.
func (h *RatingHandler) GetRating(c *gin.Context) {
	r, err := h.RatingService.GetByID(c.Request.Context(), c.Param("ratingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if caller := principal(c); !caller.IsAdmin() && r.UserID != caller.ID {
		utils.RespondError(c, utils.NewAuthorizationError("You can only view your own ratings"))
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	var patch rating.RatingPatch
	if !bindJSON(c, &patch) {
		return
	}
	r, err := h.RatingService.Update(c.Request.Context(), c.Param("ratingId"), principal(c).ID, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	if err := h.RatingService.Delete(c.Request.Context(), c.Param("ratingId"), principal(c).ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// ListPending handles GET /api/ratings/admin/pending.
func (h *RatingHandler) ListPending(c *gin.Context) {
	page, err := h.RatingService.ListPending(c.Request.Context(), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAll handles GET /api/ratings/admin/all?status=.
func (h *RatingHandler) ListAll(c *gin.Context) {
	page, err := h.RatingService.ListAll(c.Request.Context(), ratingStatusQuery(c), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Review handles PATCH /api/ratings/admin/:ratingId/review.
func (h *RatingHandler) Review(c *gin.Context) {
	var in rating.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	adminID := principal(c).ID
	r, err := h.RatingService.Review(c.Request.Context(), c.Param("ratingId"), adminID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("rating reviewed",
		zap.String("ratingID", r.ID),
		zap.String("status", string(r.Status)),
		zap.String("adminID", adminID))
	c.JSON(http.StatusOK, r)
}

// AggregationBacklog handles GET /api/ratings/admin/aggregation-backlog?limit=.
func (h *RatingHandler) AggregationBacklog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit > maxBacklogLimit {
		limit = maxBacklogLimit
	}
	backlog, err := h.RatingService.Backlog(c.Request.Context(), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, backlog)
}

// SubserviceAverage handles GET /api/ratings/average/subservice/:subserviceId.
func (h *RatingHandler) SubserviceAverage(c *gin.Context) {
	summary, err := h.RatingService.AverageForSubservice(c.Request.Context(), c.Param("subserviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AllSubserviceAverages handles GET /api/ratings/average/subservices.
func (h *RatingHandler) AllSubserviceAverages(c *gin.Context) {
	summaries, err := h.RatingService.AveragesForAllSubservices(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
