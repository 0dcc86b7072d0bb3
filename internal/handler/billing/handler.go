package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petminded/petcare-api/internal/middleware"
	"github.com/petminded/petcare-api/internal/service/billing"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
	"github.com/petminded/petcare-api/pkg/httputil"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	billings := r.Group("/billings")
	{
		billings.GET("", h.GetBills)
		billings.GET("/:id", h.GetBill)
	}
}

func (h *Handler) GetBills(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	bills, err := h.service.GetAllBills(c.Request.Context(), callerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bills)
}

func (h *Handler) GetBill(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid billing ID", err))
		return
	}

	bill, err := h.service.GetBilling(c.Request.Context(), callerID, bookingID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bill)
}
