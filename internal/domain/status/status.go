// Package status implementa la derivación del estado compuesto de una orden
// a partir de sus banderas primitivas.
package status

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
)

// Flag bandera individual de estado de una orden.
type Flag uint8

// Banderas primitivas: se activan y desactivan de forma independiente.
const (
	GoodsReceipt Flag = 1 << iota
	InvoiceReceipt
	InvoiceSettled
	Canceled

	// Banderas derivadas: nunca se asignan directamente.
	Open
	InProcess
	Finished
)

const (
	primitiveMask = GoodsReceipt | InvoiceReceipt | InvoiceSettled | Canceled
	derivedMask   = Open | InProcess | Finished
	progressMask  = GoodsReceipt | InvoiceReceipt | InvoiceSettled
)

var flagNames = map[Flag]string{
	GoodsReceipt:   "GOODS_RECEIPT",
	InvoiceReceipt: "INVOICE_RECEIPT",
	InvoiceSettled: "INVOICE_SETTLED",
	Canceled:       "CANCELED",
	Open:           "OPEN",
	InProcess:      "IN_PROCESS",
	Finished:       "FINISHED",
}

// Primitives lista las banderas primitivas en orden estable.
var Primitives = []Flag{GoodsReceipt, InvoiceReceipt, InvoiceSettled, Canceled}

func (f Flag) String() string {
	if n, ok := flagNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// IsPrimitive indica si la bandera puede asignarse directamente.
func (f Flag) IsPrimitive() bool {
	return f != 0 && f&^primitiveMask == 0 && f&(f-1) == 0
}

// ParseFlag convierte el nombre de una bandera a su valor.
func ParseFlag(name string) (Flag, error) {
	for f, n := range flagNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: bandera de estado desconocida %q", domain.ErrInvalidInput, name)
}

// Set conjunto de banderas (primitivas y derivadas).
type Set uint8

// Has indica si la bandera está activa.
func (s Set) Has(f Flag) bool { return s&Set(f) != 0 }

// Primitives devuelve solo las banderas primitivas del conjunto.
func (s Set) Primitives() Set { return s & Set(primitiveMask) }

// Derived devuelve solo las banderas derivadas del conjunto.
func (s Set) Derived() Set { return s & Set(derivedMask) }

// With devuelve el conjunto con la bandera primitiva activada o desactivada
// y las derivadas recalculadas.
func (s Set) With(f Flag, active bool) Set {
	p := s.Primitives()
	if active {
		p |= Set(f)
	} else {
		p &^= Set(f)
	}
	return p | Derive(p)
}

// Flags lista las banderas activas en orden de bit.
func (s Set) Flags() []Flag {
	var out []Flag
	for f := GoodsReceipt; f != 0 && f <= Finished; f <<= 1 {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Derive calcula las banderas derivadas {OPEN, IN_PROCESS, FINISHED} desde las primitivas.
// Función pura; las banderas derivadas presentes en la entrada se ignoran.
func Derive(s Set) Set {
	p := s.Primitives()
	switch {
	case p.Has(Canceled):
		return 0
	case p&Set(progressMask) == Set(progressMask):
		return Set(Finished)
	case p&Set(progressMask) != 0:
		return Set(InProcess)
	default:
		return Set(Open)
	}
}

// Resolve valida que el conjunto no esté vacío y devuelve las primitivas junto con
// las derivadas recalculadas. Un conjunto vacío representa un estado ausente.
func Resolve(s Set) (Set, error) {
	if s == 0 {
		return 0, domain.ErrEmptyStatus
	}
	p := s.Primitives()
	return p | Derive(p), nil
}

// New construye un conjunto con las primitivas dadas y sus derivadas.
func New(flags ...Flag) Set {
	var p Set
	for _, f := range flags {
		p |= Set(f)
	}
	p = p.Primitives()
	return p | Derive(p)
}

// MarshalJSON serializa como lista de nombres: ["GOODS_RECEIPT","IN_PROCESS"].
func (s Set) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(flagNames))
	for _, f := range s.Flags() {
		names = append(names, f.String())
	}
	return json.Marshal(names)
}

// UnmarshalJSON acepta una lista de nombres; las banderas derivadas recibidas se descartan
// y se recalculan. Una lista vacía produce un conjunto vacío (estado ausente).
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	if len(names) == 0 {
		*s = 0
		return nil
	}
	var p Set
	for _, n := range names {
		f, err := ParseFlag(n)
		if err != nil {
			return err
		}
		p |= Set(f)
	}
	// Solo derivadas (p.ej. ["OPEN"]) sigue siendo un estado presente sin primitivas.
	*s = p.Primitives() | Derive(p)
	return nil
}
