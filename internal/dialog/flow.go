// Package dialog implements the per-user conversation state machine that
// collects a transaction field by field, confirms it, and resolves to a
// committed record or a cancellation. The machine is event-driven: it only
// reacts to discrete inbound messages and never blocks waiting for input.
package dialog

import (
	"fmt"
	"strings"
	"time"

	"caja/internal/core"
)

// Canonical field names. Insertion order of collected values follows the
// flow's field list, not these constants.
const (
	FieldDate     = "fecha"
	FieldInvoice  = "factura"
	FieldClient   = "cliente"
	FieldCategory = "categoria"
	FieldSupplier = "proveedor"
	FieldAmount   = "monto"
	FieldPayment  = "medio_pago"
	FieldNotes    = "observaciones"
)

const maxTextLen = 200

// Value is a validated field value. Text is always set; Date and Money are
// populated for date and amount fields respectively.
type Value struct {
	Text  string
	Date  core.Date
	Money core.Money
}

// Env carries the context a validator may need: the current time and the
// allowed future-date grace.
type Env struct {
	Now       time.Time
	GraceDays int
}

// ValidateFunc turns raw input into a Value or rejects it with a
// human-readable reason. Validators are pure; re-invoking on retry is safe.
type ValidateFunc func(raw string, env Env) (Value, error)

// FieldSpec declares one prompt in a flow.
type FieldSpec struct {
	Name     string
	Prompt   string
	Optional bool
	// SkipValue is stored when an optional field is skipped.
	SkipValue string
	Validate  ValidateFunc
}

// Flow is the ordered field list for one transaction kind.
type Flow struct {
	Kind   core.Kind
	Title  string
	Fields []FieldSpec
}

// Options parameterize the flow tables from configuration.
type Options struct {
	Categories     []string
	PaymentMethods []string
}

// NewFlows builds the static flow tables for sales and expenses.
func NewFlows(opts Options) map[core.Kind]*Flow {
	payPrompt := "💳 Medio de pago:"
	if len(opts.PaymentMethods) > 0 {
		payPrompt += "\n• Opciones: " + strings.Join(opts.PaymentMethods, ", ")
	}
	catPrompt := "📂 Categoría del gasto:"
	if len(opts.Categories) > 0 {
		catPrompt += "\n• Opciones: " + strings.Join(opts.Categories, ", ")
	}

	sale := &Flow{
		Kind:  core.KindSale,
		Title: "💰 REGISTRO DE VENTA",
		Fields: []FieldSpec{
			{
				Name:     FieldDate,
				Prompt:   "📅 Fecha de la venta:\n• Escribe 'hoy' para usar la fecha actual\n• O ingresa DD/MM/AAAA (ej: 15/01/2025)",
				Validate: validateDate,
			},
			{
				Name:      FieldInvoice,
				Prompt:    "📄 Número de factura (opcional):\n• Ingresa el número o '-' para omitir",
				Optional:  true,
				SkipValue: "S/N",
				Validate:  validateInvoice,
			},
			{
				Name:     FieldClient,
				Prompt:   "👤 Nombre del cliente (opcional):\n• Escribe el nombre o '-' para omitir",
				Optional: true,
				Validate: validateText,
			},
			{
				Name:     FieldAmount,
				Prompt:   "💰 Monto de la venta (solo números):",
				Validate: validateAmount,
			},
			{
				Name:     FieldPayment,
				Prompt:   payPrompt,
				Validate: validateText,
			},
			{
				Name:     FieldNotes,
				Prompt:   "📝 Observaciones (opcional):\n• Escribe un comentario o '-' para omitir",
				Optional: true,
				Validate: validateText,
			},
		},
	}

	expense := &Flow{
		Kind:  core.KindExpense,
		Title: "💸 REGISTRO DE GASTO",
		Fields: []FieldSpec{
			{
				Name:     FieldDate,
				Prompt:   "📅 Fecha del gasto:\n• Escribe 'hoy' para usar la fecha actual\n• O ingresa DD/MM/AAAA",
				Validate: validateDate,
			},
			{
				Name:     FieldCategory,
				Prompt:   catPrompt,
				Validate: validateText,
			},
			{
				Name:     FieldSupplier,
				Prompt:   "🏢 Nombre del proveedor:",
				Validate: validateText,
			},
			{
				Name:     FieldAmount,
				Prompt:   "💰 Monto del gasto (solo números):",
				Validate: validateAmount,
			},
			{
				Name:     FieldPayment,
				Prompt:   payPrompt,
				Validate: validateText,
			},
			{
				Name:     FieldNotes,
				Prompt:   "📝 Observaciones (opcional):\n• Escribe un comentario o '-' para omitir",
				Optional: true,
				Validate: validateText,
			},
		},
	}

	return map[core.Kind]*Flow{
		core.KindSale:    sale,
		core.KindExpense: expense,
	}
}

func validateDate(raw string, env Env) (Value, error) {
	d, err := core.ParseDate(raw, env.Now, env.GraceDays)
	if err != nil {
		if err == core.ErrFutureDate {
			return Value{}, fmt.Errorf("la fecha está en el futuro")
		}
		return Value{}, fmt.Errorf("fecha no reconocida — usa DD/MM/AAAA o 'hoy'")
	}
	return Value{Text: d.Format(), Date: d}, nil
}

func validateAmount(raw string, _ Env) (Value, error) {
	m, err := core.ParseAmount(raw)
	if err != nil {
		return Value{}, fmt.Errorf("el monto debe ser un número positivo")
	}
	return Value{Text: m.Format(), Money: m}, nil
}

func validateInvoice(raw string, _ Env) (Value, error) {
	if err := core.ValidateInvoice(raw); err != nil {
		return Value{}, fmt.Errorf("número de factura inválido (máximo 20 caracteres)")
	}
	return Value{Text: strings.TrimSpace(raw)}, nil
}

func validateText(raw string, _ Env) (Value, error) {
	t := core.NormalizeText(raw, maxTextLen)
	if t == "" {
		return Value{}, fmt.Errorf("este campo no puede quedar vacío")
	}
	return Value{Text: t}, nil
}
