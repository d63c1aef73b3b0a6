package api

import (
	"coupon-engine/internal/infra"
)

// Query paths surface repository errors directly, without usecase sentinels.
func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}
