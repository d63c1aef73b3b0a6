package middleware

import (
	"errors"
	"net/http"

	"coupon-engine/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Principals arrive as trusted headers set by the upstream gateway; the
// engine never authenticates, it only requires that a caller identity is
// present where an operation needs one.
const (
	customerIDHeader = "X-Customer-ID"
	storeIDHeader    = "X-Store-ID"

	customerIDKey = "customer_id"
	storeIDKey    = "store_id"
)

var (
	errCustomerIDRequired = errors.New("customer id header required")
	errStoreIDRequired    = errors.New("store id header required")
)

func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(customerIDHeader))
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errCustomerIDRequired,
				"Valid "+customerIDHeader+" header required")
			return
		}
		c.Set(customerIDKey, id)
		c.Next()
	}
}

func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(storeIDHeader))
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errStoreIDRequired,
				"Valid "+storeIDHeader+" header required")
			return
		}
		c.Set(storeIDKey, id)
		c.Next()
	}
}

func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	return getUUID(c, customerIDKey)
}

func GetStoreID(c *gin.Context) (uuid.UUID, bool) {
	return getUUID(c, storeIDKey)
}

func getUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	v, exists := c.Get(key)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
