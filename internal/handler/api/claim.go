package api

import (
	"errors"
	"net/http"

	resdto "coupon-engine/internal/handler/dto/response"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClaimHandler struct {
	issuanceCommands   commands.IssuanceCommands
	redemptionCommands commands.RedemptionCommands
	instanceQueries    queries.CustomerCouponQueries
}

func NewClaimHandler(
	issuanceCommands commands.IssuanceCommands,
	redemptionCommands commands.RedemptionCommands,
	instanceQueries queries.CustomerCouponQueries,
) *ClaimHandler {
	return &ClaimHandler{
		issuanceCommands:   issuanceCommands,
		redemptionCommands: redemptionCommands,
		instanceQueries:    instanceQueries,
	}
}

// @Summary Claim coupon
// @Description Claim one instance of a coupon by its code
// @Tags claims
// @Produce json
// @Param X-Customer-ID header string true "Customer ID"
// @Param code path string true "Coupon code"
// @Success 201 {object} resdto.CustomerCouponResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /claims/{code} [post]
func (h *ClaimHandler) Claim(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.issuanceCommands.Claim(c.Request.Context(), customerID, c.Param("code"))
	if err != nil {
		h.writeClaimError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCustomerCouponView(view))
}

// @Summary List my coupons
// @Description List every coupon instance the calling customer holds
// @Tags claims
// @Produce json
// @Param X-Customer-ID header string true "Customer ID"
// @Success 200 {array} resdto.CustomerCouponResponse
// @Router /my/coupons [get]
func (h *ClaimHandler) ListMyCoupons(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.instanceQueries.ListForCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCustomerCouponViews(views))
}

// @Summary List my usable coupons
// @Description List unused, unexpired instances usable in the given store
// @Tags claims
// @Produce json
// @Param X-Customer-ID header string true "Customer ID"
// @Param store_id query string true "Store ID"
// @Success 200 {array} resdto.CustomerCouponResponse
// @Router /my/coupons/usable [get]
func (h *ClaimHandler) ListMyUsableCoupons(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	storeID, err := uuid.Parse(c.Query("store_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing store_id"})
		return
	}

	views, err := h.instanceQueries.ListUsableInStore(c.Request.Context(), customerID, storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCustomerCouponViews(views))
}

// @Summary Redeem coupon instance
// @Description Mark a coupon instance as used at checkout
// @Tags claims
// @Produce json
// @Param id path string true "Coupon instance ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupon-instances/{id}/redeem [post]
func (h *ClaimHandler) Redeem(c *gin.Context) {
	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon instance ID format"})
		return
	}

	if err := h.redemptionCommands.MarkUsed(c.Request.Context(), instanceID); err != nil {
		switch {
		case errors.Is(err, commands.ErrInstanceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon instance not found"})
		case errors.Is(err, commands.ErrAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon instance already used"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ClaimHandler) writeClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
	case errors.Is(err, commands.ErrNotIssuable):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon is not issuable"})
	case errors.Is(err, commands.ErrNotYetOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon issuance has not opened yet"})
	case errors.Is(err, commands.ErrSoldOut):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon is sold out"})
	case errors.Is(err, commands.ErrAlreadyIssued):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon already claimed by this customer"})
	case errors.Is(err, commands.ErrTemporarilyUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Coupon is temporarily unavailable, retry shortly"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
