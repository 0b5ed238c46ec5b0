package flow

import (
	"fmt"
	"strings"

	"localfirst-bot/internal/domain"
)

const divider = "━━━━━━━━━━━━━━━"

func price(v float64) string { return fmt.Sprintf("$%.2f", v) }

func firstName(name string) string {
	if name == "" {
		return "there"
	}
	return strings.SplitN(name, " ", 2)[0]
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Hey %s! 👋\n\nWelcome to *LocalFirst YYC* - Calgary's local food delivery!\n\n"+
		"🏠 85%% stays with the restaurant owner\n"+
		"💚 Drivers keep 100%% of tips\n"+
		"🇨🇦 Supporting local Calgary families\n\n"+
		"Ready to order?", firstName(name))
}

func aboutBody() string {
	return "💚 *About LocalFirst YYC*\n\n" +
		"We're Calgary's local food delivery platform.\n\n" +
		"Unlike Skip & DoorDash (who take 30%+), we only take 15%.\n\n" +
		"• 🏠 Restaurant owners keep 85%\n" +
		"• 🚗 Drivers keep 100% of tips\n" +
		"• 🇨🇦 Supporting local families\n\n" +
		"Every order makes a difference!"
}

func itemLines(lines []domain.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("• %s - %s", l.Name, price(l.Price)))
	}
	return strings.Join(parts, "\n")
}

func addedToCartBody(item domain.MenuItem, cart []domain.CartLine) string {
	return fmt.Sprintf("✅ Added *%s* to your cart!\n\n🛒 Cart: %d item(s) - %s\n\nWhat would you like to do next?",
		item.Name, len(cart), price(domain.Subtotal(cart)))
}

func cartBody(cart []domain.CartLine) string {
	return fmt.Sprintf("🛒 *Your Cart*\n\n%s\n\n%s\n*Total: %s*",
		itemLines(cart), divider, price(domain.Subtotal(cart)))
}

func orderSummaryBody(rec domain.ConversationRecord, subtotal, deliveryFee float64) string {
	return fmt.Sprintf("📋 *Order Summary*\n\n%s\n\nSubtotal: %s\nDelivery: %s\n%s\n*Total: %s*\n\n📍 %s\n\n"+
		"💚 *Add a tip?*\nDrivers keep 100%% of tips!",
		itemLines(rec.Cart), price(subtotal), price(deliveryFee), divider,
		price(subtotal+deliveryFee), rec.DeliveryAddress)
}

func confirmationBody(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 *Order Confirmed!*\n\nOrder #%s\n\n📍 Delivering to:\n%s\n\n💰 Total: %s",
		order.Number, order.DeliveryAddress, price(order.Total))
	if order.Tip > 0 {
		fmt.Fprintf(&b, "\n💚 Tip: %s (driver keeps 100%%!)", price(order.Tip))
	}
	b.WriteString("\n\n🚗 A driver is being notified and will pick up your order soon!\n\n")
	b.WriteString(divider)
	b.WriteString("\n💚 *You just made a difference!*\n85% of your order stays with the restaurant owner.\nThank you for supporting local! 🇨🇦")
	return b.String()
}

func checkoutRetryBody() string {
	return "😓 Something went wrong placing your order. Your cart is untouched - please tap Checkout to try again."
}
