package walink_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"retroverse/pkg/walink"
)

func TestPaymentConfirmation(t *testing.T) {
	url := walink.PaymentConfirmation("6281388209195", walink.Summary{
		CustomerName:  "Demo Customer",
		CustomerEmail: "user@example.com",
		OrderRef:      "65a1b2c3",
		GameTitles:    []string{"Mortal Kombat 1", "Cyber Quest PC"},
		Total:         1548000,
		PaymentMethod: "BCA",
	})

	assert.True(t, strings.HasPrefix(url, "https://wa.me/6281388209195?text="))
	assert.Contains(t, url, "*Order ID:* 65a1b2c3")
	assert.Contains(t, url, "Mortal Kombat 1, Cyber Quest PC")
	assert.Contains(t, url, "Rp 1.548.000")
	assert.Contains(t, url, "*Metode:* BCA")
	assert.Contains(t, url, "Demo Customer")
	assert.Contains(t, url, "user@example.com")

	// Newlines travel as literal %0A sequences, never as real newlines.
	assert.Contains(t, url, "%0A%0A")
	assert.NotContains(t, url, "\n")
}

func TestPaymentConfirmationSmallTotal(t *testing.T) {
	url := walink.PaymentConfirmation("628000000000", walink.Summary{
		CustomerName:  "A",
		CustomerEmail: "a@b.c",
		OrderRef:      "deadbeef",
		GameTitles:    []string{"Tetris"},
		Total:         500,
		PaymentMethod: "Dana",
	})

	assert.Contains(t, url, "Rp 500")
	assert.NotContains(t, url, "Rp .500")
}
