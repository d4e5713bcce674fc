package dialog

import (
	"fmt"
	"strings"

	"caja/internal/core"
)

const rule = "━━━━━━━━━━━━━━━━"

func fieldEcho(f FieldSpec, v Value) string {
	label := fieldLabel(f.Name)
	text := v.Text
	if text == "" {
		text = "-"
	}
	return fmt.Sprintf("%s: %s", label, text)
}

func fieldLabel(name string) string {
	switch name {
	case FieldDate:
		return "Fecha"
	case FieldInvoice:
		return "Factura"
	case FieldClient:
		return "Cliente"
	case FieldCategory:
		return "Categoría"
	case FieldSupplier:
		return "Proveedor"
	case FieldAmount:
		return "Monto"
	case FieldPayment:
		return "Medio de pago"
	case FieldNotes:
		return "Obs"
	}
	return name
}

// confirmMessage renders the collected draft for the user to approve.
func confirmMessage(d *Draft) string {
	var b strings.Builder
	switch d.Flow.Kind {
	case core.KindSale:
		b.WriteString("✅ CONFIRMAR VENTA\n")
	case core.KindExpense:
		b.WriteString("✅ CONFIRMAR GASTO\n")
	}
	b.WriteString(rule + "\n")
	for _, f := range d.Flow.Fields {
		v := d.value(f.Name)
		text := v.Text
		if text == "" {
			text = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", fieldLabel(f.Name), text)
	}
	b.WriteString(rule + "\n")
	b.WriteString("¿Confirmas el registro? (Sí/No)")
	return b.String()
}

func cancelMessage(kind core.Kind) string {
	if kind == core.KindSale {
		return "❌ Venta cancelada."
	}
	return "❌ Gasto cancelado."
}
