package orders

import (
	"fmt"
	"net/url"
	"strings"

	"pizzeria-service/models"
	"pizzeria-service/pricing"
)

const separator = "--------------------------------\n"

// HandoffMessage composes the order text the customer sends to the shop over
// WhatsApp. Payment is settled outside the system.
func HandoffMessage(user models.User, zone *models.DeliveryZone, items []models.CartItem, notes string) string {
	quote := pricing.Quote(items, zone)

	var b strings.Builder
	b.WriteString("*NOVO PEDIDO*\n")
	b.WriteString(separator)
	fmt.Fprintf(&b, "*Cliente:* %s\n", user.Name)
	fmt.Fprintf(&b, "*WhatsApp:* %s\n", user.Phone)
	if zone != nil {
		fmt.Fprintf(&b, "*Zona:* %s\n", zone.Name)
	} else {
		b.WriteString("*Zona:* Retirada no Balcão\n")
	}
	b.WriteString(separator)
	b.WriteString("\n")

	for _, item := range items {
		fmt.Fprintf(&b, "*%dx %s* (%s)\n", item.Quantity, item.Name, item.Size)
		if len(item.Extras) > 0 {
			names := make([]string, len(item.Extras))
			for i, e := range item.Extras {
				names[i] = e.Name
			}
			fmt.Fprintf(&b, "  _Extras: %s_\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(&b, "  Valor: %d$\n\n", pricing.LineTotal(item))
	}

	if strings.TrimSpace(notes) != "" {
		b.WriteString(separator)
		fmt.Fprintf(&b, "*Observações:* %s\n", notes)
	}

	b.WriteString(separator)
	if quote.Packaging > 0 {
		fmt.Fprintf(&b, "*Caixas:* %d$\n", quote.Packaging)
	}
	if zone != nil {
		fmt.Fprintf(&b, "*Entrega:* %d$\n", quote.Delivery)
	}
	fmt.Fprintf(&b, "\n*TOTAL A PAGAR: %d$*\n", quote.Total)
	b.WriteString(strings.TrimSuffix(separator, "\n"))
	return b.String()
}

// HandoffURL is the wa.me deep link that opens a chat with number prefilled with msg.
func HandoffURL(number, msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, text)
}
