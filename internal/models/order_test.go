package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Placed", "Completed", "Cancelled"} {
		status, err := models.ParseOrderStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "placed", "Shipped", "Refunded"} {
		_, err := models.ParseOrderStatus(invalid)
		assert.Error(t, err, "status %q must be rejected", invalid)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.StatusPlaced, models.StatusCompleted, true},
		{models.StatusPlaced, models.StatusCancelled, true},
		{models.StatusCompleted, models.StatusCancelled, true},
		{models.StatusCompleted, models.StatusPlaced, false},
		{models.StatusCancelled, models.StatusPlaced, false},
		{models.StatusCancelled, models.StatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderReference(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65a1b2c3d4e5f60718293a4b")
	assert.NoError(t, err)

	order := models.Order{ID: id}
	assert.Equal(t, "65a1b2c3", order.Reference())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, models.ParseRole("admin"))
	assert.Equal(t, models.RoleAdmin, models.ParseRole("Admin"))
	assert.Equal(t, models.RoleCustomer, models.ParseRole("Customer"))

	// Anything outside the known set counts as Customer.
	assert.Equal(t, models.RoleCustomer, models.ParseRole("superuser"))
	assert.Equal(t, models.RoleCustomer, models.ParseRole(""))

	assert.True(t, models.RoleAdmin.IsAdmin())
	assert.True(t, models.Role("ADMIN").IsAdmin())
	assert.False(t, models.RoleCustomer.IsAdmin())
}
