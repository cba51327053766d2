package payment

import (
	"testing"

	"TransitGuard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderID(t *testing.T) {
	service := &paymentService{}

	userID, packageID, err := service.ParseOrderID("coin:user-123:pack-7:1714000000")
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "pack-7", packageID)
}

func TestParseOrderIDRejectsMalformed(t *testing.T) {
	service := &paymentService{}

	for _, orderID := range []string{
		"",
		"coin:user-123",
		"coin:user-123:pack-7",
		"subscription:user-123:pack-7:1714000000",
		"coin:user:pack:ts:extra",
	} {
		_, _, err := service.ParseOrderID(orderID)
		assert.ErrorIs(t, err, domain.ErrPaymentFailed, "order id %q", orderID)
	}
}
