//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"coupon-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("operation failed")

	t.Run("both chains match with errors.Is", func(t *testing.T) {
		cause := errors.New("row not found")
		err := errs.Mark(cause, sentinel)

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("message stays the cause's", func(t *testing.T) {
		err := errs.Mark(errors.New("row not found"), sentinel)
		assert.Equal(t, "row not found", err.Error())
	})

	t.Run("nil cause yields the mark itself", func(t *testing.T) {
		assert.ErrorIs(t, errs.Mark(nil, sentinel), sentinel)
	})
}
