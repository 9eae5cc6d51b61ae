package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/jporrasr97/tienda-api/models"
)

const orderSubject = "Nuevo pedido - Tienda en Línea"

// OrderMessage renders the operator notification for a freshly placed
// order: a plain-text summary plus an HTML table with one row per
// line item. Prices are quoted in quetzales.
func OrderMessage(o models.Order, address, phone, buyerEmail string) (subject, textBody, htmlBody string) {
	var lines []string
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("- %s x%d = Q%.2f", it.ProductName, it.Quantity, it.UnitPrice*float64(it.Quantity)))
	}

	textBody = fmt.Sprintf(
		"Nuevo pedido %s:\n\n"+
			"Dirección de envío: %s\n"+
			"Teléfono: %s\n"+
			"Email cliente: %s\n\n"+
			"Productos:\n%s\n\n"+
			"Total: Q%.2f\n",
		o.Reference, address, phone, buyerEmail, strings.Join(lines, "\n"), o.Total,
	)

	var rows strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td>%d</td><td>Q%.2f</td><td>Q%.2f</td></tr>",
			html.EscapeString(it.ProductName), it.Quantity, it.UnitPrice, it.UnitPrice*float64(it.Quantity))
	}

	htmlBody = fmt.Sprintf(`
<h3>Nuevo pedido %s</h3>
<p><strong>Dirección de envío:</strong> %s<br>
   <strong>Teléfono:</strong> %s<br>
   <strong>Email cliente:</strong> %s</p>
<table border="1" cellpadding="6" cellspacing="0">
  <thead>
    <tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr>
  </thead>
  <tbody>
    %s
  </tbody>
</table>
<h4>Total: Q%.2f</h4>
`,
		html.EscapeString(o.Reference), html.EscapeString(address), html.EscapeString(phone),
		html.EscapeString(buyerEmail), rows.String(), o.Total)

	return orderSubject, textBody, htmlBody
}
