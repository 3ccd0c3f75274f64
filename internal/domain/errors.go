package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// ValidationError falla de validación previa a la conciliación.
// El mensaje es apto para el usuario y se devuelve tal cual en la respuesta.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrInvalidInput) para cualquier falla de validación.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Fallas de validación conocidas. Comparar con errors.Is.
var (
	ErrEmptyStatus       = &ValidationError{Message: "el estado no debe estar vacío"}
	ErrNoItems           = &ValidationError{Message: "la orden debe tener al menos un ítem"}
	ErrDuplicateItem     = &ValidationError{Message: "los identificadores de ítem deben ser únicos en la orden"}
	ErrInvalidQuantity   = &ValidationError{Message: "la cantidad debe ser mayor que cero"}
	ErrInsufficientStock = &ValidationError{Message: "stock insuficiente"}
	ErrCurrencyMismatch  = &ValidationError{Message: "la orden debe usar una sola moneda, la de su cuenta"}
	ErrMissingBOM        = &ValidationError{Message: "el material producido no tiene lista de materiales"}
	ErrUnknownMaterial   = &ValidationError{Message: "material no encontrado"}
	ErrMissingAccount    = &ValidationError{Message: "la orden requiere una cuenta de pago"}
	ErrInvalidStatus     = &ValidationError{Message: "estado no válido para el tipo de orden"}
	ErrInvalidKind       = &ValidationError{Message: "tipo de orden no válido o modificado"}
)
