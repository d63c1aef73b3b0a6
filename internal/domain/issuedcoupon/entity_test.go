//go:build unit

package issuedcoupon_test

import (
	"testing"
	"time"

	"coupon-engine/internal/domain/issuedcoupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstance(t *testing.T) {
	couponID := uuid.New()
	customerID := uuid.New()
	issuedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(30 * 24 * time.Hour)

	inst := issuedcoupon.NewInstance(couponID, customerID, issuedAt, expiresAt)

	assert.NotEqual(t, uuid.Nil, inst.ID())
	assert.Equal(t, couponID, inst.CouponID())
	assert.Equal(t, customerID, inst.CustomerID())
	assert.Equal(t, expiresAt, inst.ExpiresAt())
	assert.Equal(t, issuedcoupon.StatusUnused, inst.Status())
}

func TestMarkUsed(t *testing.T) {
	issuedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	inst := issuedcoupon.NewInstance(uuid.New(), uuid.New(), issuedAt, issuedAt.Add(24*time.Hour))

	require.NoError(t, inst.MarkUsed())
	assert.Equal(t, issuedcoupon.StatusUsed, inst.Status())

	assert.ErrorIs(t, inst.MarkUsed(), issuedcoupon.ErrAlreadyUsed)
}

func TestIsUsableAt(t *testing.T) {
	issuedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(24 * time.Hour)
	inst := issuedcoupon.NewInstance(uuid.New(), uuid.New(), issuedAt, expiresAt)

	assert.True(t, inst.IsUsableAt(issuedAt))
	assert.True(t, inst.IsUsableAt(expiresAt.Add(-time.Second)))
	assert.False(t, inst.IsUsableAt(expiresAt))
	assert.False(t, inst.IsUsableAt(expiresAt.Add(time.Hour)))

	require.NoError(t, inst.MarkUsed())
	assert.False(t, inst.IsUsableAt(issuedAt))
}

func TestHasExpired(t *testing.T) {
	issuedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(24 * time.Hour)
	inst := issuedcoupon.NewInstance(uuid.New(), uuid.New(), issuedAt, expiresAt)

	assert.False(t, inst.HasExpired(issuedAt))
	assert.False(t, inst.HasExpired(expiresAt))
	assert.True(t, inst.HasExpired(expiresAt.Add(time.Nanosecond)))
}
