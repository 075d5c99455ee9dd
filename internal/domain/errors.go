package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrLocked                = errors.New("recurso bloqueado por otra operación")
	ErrUnresolvedBOM         = errors.New("lista de materiales no resoluble")
	ErrCyclicBOM             = errors.New("lista de materiales cíclica")
	ErrIneligibleSourceOrder = errors.New("orden de origen no elegible")
)

// ValidationError error de validación de entrada asociado a un campo.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ConflictError la operación no es válida en el estado actual del recurso.
type ConflictError struct {
	Reason string
}

// NewConflictError construye un ConflictError.
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// UnresolvedBOMError el producto requiere una BOM activa con líneas y no la tiene,
// o la explosión superó la profundidad máxima.
type UnresolvedBOMError struct {
	ProductCode string
	Reason      string
}

func (e *UnresolvedBOMError) Error() string {
	return fmt.Sprintf("BOM no resoluble para el producto %s: %s", e.ProductCode, e.Reason)
}

func (e *UnresolvedBOMError) Unwrap() error { return ErrUnresolvedBOM }

// CyclicBOMError la explosión encontró un producto que ya estaba en el camino actual.
// Path lista los códigos de producto desde la raíz hasta la repetición inclusive.
type CyclicBOMError struct {
	Path []string
}

func (e *CyclicBOMError) Error() string {
	return "ciclo en la BOM: " + strings.Join(e.Path, " -> ")
}

func (e *CyclicBOMError) Unwrap() error { return ErrCyclicBOM }

// IneligibleSourceOrderError la orden referenciada no está confirmada.
type IneligibleSourceOrderError struct {
	OrderNumber string
	Status      string
}

func (e *IneligibleSourceOrderError) Error() string {
	return fmt.Sprintf("la orden %s está en estado %s; solo se planifican órdenes CONFIRMED", e.OrderNumber, e.Status)
}

func (e *IneligibleSourceOrderError) Unwrap() error { return ErrIneligibleSourceOrder }
