package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"caja/internal/core"
	"caja/internal/report"
)

const rule = "━━━━━━━━━━━━━━━━"

const (
	msgUnauthorized = "❌ No tienes autorización para usar este bot."

	msgHelp = "🏪 BOT DE CAJA\n" +
		rule + "\n" +
		"/venta — registrar una venta\n" +
		"/gasto — registrar un gasto\n" +
		"/reporte <periodo> — resumen financiero (hoy, semana, mes, todo)\n" +
		"/estado — resumen del mes en curso\n" +
		"/cancelar — descartar el registro en curso\n" +
		"/ayuda — este mensaje"

	msgFlowInProgress = "⚠️ Ya tienes un registro en curso.\n" +
		"Termínalo o usa /cancelar para descartarlo."

	msgNoActiveFlow = "No tienes ningún registro en curso.\n" +
		"Usa /venta o /gasto para empezar."

	msgActiveFlow = "📝 Tienes un registro de %s en curso.\n" +
		"Continúa respondiendo o usa /cancelar."

	msgCancelled       = "❌ Registro cancelado."
	msgNothingToCancel = "No hay nada que cancelar."

	msgDraftExpired = "⏰ Tu registro anterior expiró por inactividad y fue descartado."

	msgSaveFailed = "⚠️ No se pudo guardar el registro.\n" +
		"Responde Sí para reintentar o No para cancelar."

	msgReportUsage = "📊 Indica el periodo del reporte:\n" +
		"/reporte hoy\n/reporte semana\n/reporte mes\n/reporte todo"

	msgReportFailed = "⚠️ No se pudo generar el reporte. Inténtalo de nuevo."

	msgUnknownCommand = "Comando no reconocido. Usa /ayuda para ver las opciones."

	msgInternalError = "⚠️ Algo salió mal. Inténtalo de nuevo."
)

func flowName(kind core.Kind) string {
	if kind == core.KindSale {
		return "venta"
	}
	return "gasto"
}

func successMessage(rec core.Record) string {
	var b strings.Builder
	if rec.Kind == core.KindSale {
		b.WriteString("✅ ¡VENTA REGISTRADA EXITOSAMENTE!\n")
	} else {
		b.WriteString("✅ ¡GASTO REGISTRADO EXITOSAMENTE!\n")
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "📅 Fecha: %s\n", rec.Date.Format())
	fmt.Fprintf(&b, "💰 Monto: %s\n", rec.Amount.Format())
	fmt.Fprintf(&b, "💳 Medio de pago: %s", rec.PaymentMethod)
	return b.String()
}

// renderSummary formats a windowed summary for the chat.
func renderSummary(s report.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 REPORTE %s\n", s.Window.Label)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "💰 Ventas: %s (%d)\n", s.TotalSales.Format(), s.SalesCount)
	fmt.Fprintf(&b, "💸 Gastos: %s (%d)\n", s.TotalExpenses.Format(), s.ExpenseCount)
	fmt.Fprintf(&b, "📈 Ganancia: %s\n", s.Profit.Format())
	fmt.Fprintf(&b, "📊 Margen: %s%%", s.Margin.Mul(decimal.NewFromInt(100)).StringFixed(1))

	writeBreakdown(&b, "\n\n💳 Ventas por medio de pago:", s.SalesByPayment)
	writeBreakdown(&b, "\n\n📂 Gastos por categoría:", s.ExpensesByCategory)
	return b.String()
}

func writeBreakdown(b *strings.Builder, header string, lines []report.BreakdownLine) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(header)
	for _, line := range lines {
		fmt.Fprintf(b, "\n• %s: %s (%d)", line.Label, line.Amount.Format(), line.Count)
	}
}
