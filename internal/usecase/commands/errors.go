package commands

import (
	"coupon-engine/internal/pkg/errs"
)

// Terminal, local failures returned to the caller; nothing is retried
// inside the engine. SoldOut is a definitive outcome, never transient;
// TemporarilyUnavailable is the one error callers may reasonably retry.
var (
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrInstanceNotFound        = errs.New("coupon instance not found")
	ErrInvalidExpiryPolicy     = errs.New("invalid expiry policy")
	ErrNotIssuable             = errs.New("coupon is not issuable")
	ErrNotYetOpen              = errs.New("coupon issuance has not opened yet")
	ErrSoldOut                 = errs.New("coupon is sold out")
	ErrAlreadyIssued           = errs.New("coupon already issued to this customer")
	ErrHasIssuedCopies         = errs.New("coupon has issued copies")
	ErrAlreadyUsed             = errs.New("coupon instance already used")
	ErrTemporarilyUnavailable  = errs.New("issuance temporarily unavailable")
	ErrEditConflict            = errs.New("coupon was modified concurrently")
	ErrDuplicateCode           = errs.New("coupon code already exists")
	ErrStoreMismatch           = errs.New("coupon does not belong to this store")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
