package checklist

import (
	"errors"
	"net/http"
	"strconv"

	"cleanops/internal/domain"
	"cleanops/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the execution endpoints. Scheduling lives in the
// catalog module; review is registered separately because it is manager-side.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/checklists/my", h.MyChecklists)
	rg.GET("/checklists/:id/progress", h.Progress)
	rg.POST("/checklists/:id/start", h.Start)
	rg.POST("/checklists/:id/items/:itemID/submit", h.SubmitItem)
	rg.POST("/checklists/:id/complete", h.Complete)
}

func (h *Handler) RegisterReviewRoutes(rg *gin.RouterGroup) {
	rg.POST("/checklists/:id/review", h.Review)
}

func (h *Handler) Start(c *gin.Context) {
	checklistID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cl, err := h.service.Start(c.Request.Context(), checklistID, c.GetInt64("user_id"), req.Location)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checklist": cl})
}

func (h *Handler) SubmitItem(c *gin.Context) {
	checklistID, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	var req SubmitItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cl, err := h.service.SubmitItem(c.Request.Context(), checklistID, itemID, c.GetInt64("user_id"), req)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checklist": cl})
}

func (h *Handler) Complete(c *gin.Context) {
	checklistID, ok := paramID(c, "id")
	if !ok {
		return
	}

	cl, err := h.service.Complete(c.Request.Context(), checklistID, c.GetInt64("user_id"))
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checklist": cl})
}

func (h *Handler) Review(c *gin.Context) {
	checklistID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cl, err := h.service.Review(c.Request.Context(), checklistID, req)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checklist": cl})
}

func (h *Handler) Progress(c *gin.Context) {
	checklistID, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Progress(c.Request.Context(), checklistID, c.GetInt64("user_id"), domain.Role(c.GetString("role")))
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) MyChecklists(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	lists, err := h.service.MyChecklists(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checklists": lists})
}

// writeEngineError maps every engine rejection to its own code so clients can
// always distinguish a domain rejection from a transport failure.
func (h *Handler) writeEngineError(c *gin.Context, err error) {
	var oor *OutOfRangeError
	if errors.As(err, &oor) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "OUT_OF_RANGE",
			"You are outside the property's allowed start radius", gin.H{
				"distance_meters": oor.DistanceMeters,
				"allowed_meters":  oor.AllowedMeters,
			})
		return
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrIllegalTransition):
		response.Error(c, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, ErrItemLocked):
		response.Error(c, http.StatusConflict, "ITEM_LOCKED", err.Error())
	case errors.Is(err, ErrIncompleteChecklist):
		response.Error(c, http.StatusConflict, "INCOMPLETE_CHECKLIST", err.Error())
	case errors.Is(err, ErrInsufficientPhotos):
		response.Error(c, http.StatusUnprocessableEntity, "INSUFFICIENT_PHOTOS", err.Error())
	case errors.Is(err, ErrLocationUnavailable):
		response.Error(c, http.StatusUnprocessableEntity, "LOCATION_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrInvalidRating):
		response.Error(c, http.StatusBadRequest, "INVALID_RATING", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Checklist operation failed")
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
