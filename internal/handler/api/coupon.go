package api

import (
	"errors"
	"net/http"

	reqdto "coupon-engine/internal/handler/dto/request"
	resdto "coupon-engine/internal/handler/dto/response"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Define coupon
// @Description Create a new coupon definition for the calling store
// @Tags coupons
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "Store ID"
// @Param request body reqdto.DefineCouponRequest true "Coupon definition"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /coupons [post]
func (h *CouponHandler) Define(c *gin.Context) {
	storeID, ok := middleware.GetStoreID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.DefineCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.couponCommands.Define(c.Request.Context(), storeID, req.ToParams())
	if err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCouponView(view))
}

// @Summary Update coupon
// @Description Replace the editable fields of a coupon definition
// @Tags coupons
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "Store ID"
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateCouponRequest true "New field values with current version"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	storeID, ok := middleware.GetStoreID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID format"})
		return
	}

	var req reqdto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.couponCommands.Update(c.Request.Context(), storeID, couponID, req.ToParams())
	if err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary Set coupon status
// @Description Switch a coupon between active, inactive and recalled
// @Tags coupons
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "Store ID"
// @Param id path string true "Coupon ID"
// @Param request body reqdto.SetCouponStatusRequest true "Target status with current version"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupons/{id}/status [patch]
func (h *CouponHandler) SetStatus(c *gin.Context) {
	storeID, ok := middleware.GetStoreID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID format"})
		return
	}

	var req reqdto.SetCouponStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.couponCommands.SetStatus(c.Request.Context(), storeID, couponID, req.Status, req.Version); err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete coupon
// @Description Delete a coupon definition; refused while issued copies exist
// @Tags coupons
// @Produce json
// @Param X-Store-ID header string true "Store ID"
// @Param id path string true "Coupon ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	storeID, ok := middleware.GetStoreID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID format"})
		return
	}

	if err := h.couponCommands.Delete(c.Request.Context(), storeID, couponID); err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get coupon
// @Description Get one coupon definition by ID
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} map[string]string
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID format"})
		return
	}

	view, err := h.couponQueries.GetByID(c.Request.Context(), couponID)
	if err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List coupons
// @Description List coupon definitions owned by a store
// @Tags coupons
// @Produce json
// @Param store_id query string true "Store ID"
// @Success 200 {array} resdto.CouponResponse
// @Router /coupons [get]
func (h *CouponHandler) ListByStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Query("store_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing store_id"})
		return
	}

	views, err := h.couponQueries.ListByStore(c.Request.Context(), storeID)
	if err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponViews(views))
}

// @Summary List issuable coupons
// @Description List coupons a customer could claim right now, optionally scoped to one store
// @Tags coupons
// @Produce json
// @Param store_id query string false "Store ID"
// @Success 200 {array} resdto.CouponResponse
// @Router /coupons/issuable [get]
func (h *CouponHandler) ListIssuable(c *gin.Context) {
	var (
		views []*queries.CouponView
		err   error
	)
	if raw := c.Query("store_id"); raw != "" {
		storeID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store_id"})
			return
		}
		views, err = h.couponQueries.ListIssuableForStore(c.Request.Context(), storeID)
	} else {
		views, err = h.couponQueries.ListAllIssuable(c.Request.Context())
	}
	if err != nil {
		h.writeCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponViews(views))
}

// Other stores' coupons are reported as absent rather than forbidden, so a
// store cannot probe which IDs exist.
func (h *CouponHandler) writeCouponError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCouponNotFound), errors.Is(err, commands.ErrStoreMismatch):
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
	case errors.Is(err, commands.ErrInvalidExpiryPolicy):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid expiry policy"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed"})
	case errors.Is(err, commands.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already in use"})
	case errors.Is(err, commands.ErrEditConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon was modified concurrently, re-read and retry"})
	case errors.Is(err, commands.ErrHasIssuedCopies):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon has issued copies and cannot be deleted"})
	default:
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
