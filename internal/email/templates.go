package email

import (
	"fmt"
	"strings"

	"basil/internal/models"
)

func (s *Service) generateOrderConfirmationHTML(user *models.User, order *models.Order) string {
	var lines strings.Builder
	for _, item := range order.Items {
		name := fmt.Sprintf("Item #%d", item.MenuItemID)
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		lines.WriteString(fmt.Sprintf(
			`<tr><td>%s</td><td style="text-align: center;">%d</td><td style="text-align: right;">%d</td></tr>`,
			name, item.Quantity, item.TotalPrice))
	}
	if order.Notes != nil {
		for _, sel := range order.Notes.Selections {
			lines.WriteString(fmt.Sprintf(
				`<tr><td>%s</td><td style="text-align: center;">%d guests</td><td style="text-align: right;">%d</td></tr>`,
				sel.Name, sel.GuestCount, sel.LineTotal))
		}
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Order Confirmation</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #2d5e3e;
            text-align: center;
            margin-bottom: 20px;
        }
        table {
            width: 100%%;
            border-collapse: collapse;
            margin: 20px 0;
        }
        th, td {
            padding: 8px;
            border-bottom: 1px solid #e9ecef;
            text-align: left;
        }
        .totals td {
            border-bottom: none;
            padding: 4px 8px;
        }
        .grand-total {
            font-weight: bold;
            font-size: 18px;
            color: #2d5e3e;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Basil Catering</div>
        <p>Hi %s,</p>
        <p>Thank you for your order! We have received it and will be in touch to confirm the details.</p>
        <p><strong>Order number:</strong> %s</p>
        <table>
            <tr><th>Item</th><th style="text-align: center;">Qty</th><th style="text-align: right;">Total</th></tr>
            %s
        </table>
        <table class="totals">
            <tr><td>Menu subtotal</td><td style="text-align: right;">%d</td></tr>
            <tr><td>Logistics fee</td><td style="text-align: right;">%d</td></tr>
            <tr><td>Service retainer</td><td style="text-align: right;">%d</td></tr>
            <tr><td>Taxes</td><td style="text-align: right;">%d</td></tr>
            <tr class="grand-total"><td>Grand total</td><td style="text-align: right;">%d</td></tr>
        </table>
        <div class="footer">
            <p>Basil Catering &middot; This is an automated confirmation, replies are not monitored.</p>
        </div>
    </div>
</body>
</html>`,
		user.Name, order.OrderNumber, lines.String(),
		order.Subtotal, order.LogisticsFee, order.ServiceRetainer, order.TaxAmount, order.TotalAmount)
}

func (s *Service) generateOrderConfirmationText(user *models.User, order *models.Order) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Hi %s,\n\n", user.Name))
	b.WriteString("Thank you for your order! We have received it and will be in touch to confirm the details.\n\n")
	b.WriteString(fmt.Sprintf("Order number: %s\n\n", order.OrderNumber))

	for _, item := range order.Items {
		name := fmt.Sprintf("Item #%d", item.MenuItemID)
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		b.WriteString(fmt.Sprintf("  %s x%d - %d\n", name, item.Quantity, item.TotalPrice))
	}
	if order.Notes != nil {
		for _, sel := range order.Notes.Selections {
			b.WriteString(fmt.Sprintf("  %s (%d guests) - %d\n", sel.Name, sel.GuestCount, sel.LineTotal))
		}
	}

	b.WriteString(fmt.Sprintf("\nMenu subtotal:    %d\n", order.Subtotal))
	b.WriteString(fmt.Sprintf("Logistics fee:    %d\n", order.LogisticsFee))
	b.WriteString(fmt.Sprintf("Service retainer: %d\n", order.ServiceRetainer))
	b.WriteString(fmt.Sprintf("Taxes:            %d\n", order.TaxAmount))
	b.WriteString(fmt.Sprintf("Grand total:      %d\n", order.TotalAmount))
	b.WriteString("\nBasil Catering\n")

	return b.String()
}
