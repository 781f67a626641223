// Package walink builds pre-filled WhatsApp deep links for manual payment
// confirmation. Newlines are carried as literal %0A sequences; the rest of the
// message text is passed through verbatim, matching what WhatsApp's wa.me
// endpoint accepts.
package walink

import (
	"fmt"
	"strings"
)

// Summary is the order information embedded in a confirmation message.
type Summary struct {
	CustomerName  string
	CustomerEmail string
	// OrderRef is the truncated order id fragment shown to the admin.
	OrderRef      string
	GameTitles    []string
	Total         float64
	PaymentMethod string
}

// PaymentConfirmation returns a wa.me link to the admin phone number with the
// confirmation text pre-filled.
func PaymentConfirmation(adminPhone string, s Summary) string {
	games := strings.Join(s.GameTitles, ", ")

	message := "Halo Admin RetroVerse!%0A%0A" +
		fmt.Sprintf("Saya *%s* (%s) ingin konfirmasi pembayaran:%%0A%%0A", s.CustomerName, s.CustomerEmail) +
		fmt.Sprintf("📦 *Order ID:* %s%%0A", s.OrderRef) +
		fmt.Sprintf("🎮 *Games:* %s%%0A", games) +
		fmt.Sprintf("💰 *Total:* Rp %s%%0A", formatRupiah(s.Total)) +
		fmt.Sprintf("💳 *Metode:* %s%%0A%%0A", s.PaymentMethod) +
		"Mohon konfirmasi pembayaran saya. Terima kasih!"

	return fmt.Sprintf("https://wa.me/%s?text=%s", adminPhone, message)
}

// formatRupiah renders an amount with dot thousand separators and no decimals,
// the id-ID convention (e.g. 799000 -> "799.000").
func formatRupiah(amount float64) string {
	digits := fmt.Sprintf("%.0f", amount)

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
