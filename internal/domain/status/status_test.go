package status_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

// ──────────────────────────────────────────────────────────────────────────────
// Derivación
// ──────────────────────────────────────────────────────────────────────────────

func TestDerive_DieciseisCombinaciones(t *testing.T) {
	G, IR, IS, C := status.GoodsReceipt, status.InvoiceReceipt, status.InvoiceSettled, status.Canceled
	cases := []struct {
		name  string
		flags []status.Flag
		want  status.Flag // 0 = ninguna derivada
	}{
		{"vacío", nil, status.Open},
		{"G", []status.Flag{G}, status.InProcess},
		{"IR", []status.Flag{IR}, status.InProcess},
		{"IS", []status.Flag{IS}, status.InProcess},
		{"G+IR", []status.Flag{G, IR}, status.InProcess},
		{"G+IS", []status.Flag{G, IS}, status.InProcess},
		{"IR+IS", []status.Flag{IR, IS}, status.InProcess},
		{"G+IR+IS", []status.Flag{G, IR, IS}, status.Finished},
		{"C", []status.Flag{C}, 0},
		{"C+G", []status.Flag{C, G}, 0},
		{"C+IR", []status.Flag{C, IR}, 0},
		{"C+IS", []status.Flag{C, IS}, 0},
		{"C+G+IR", []status.Flag{C, G, IR}, 0},
		{"C+G+IS", []status.Flag{C, G, IS}, 0},
		{"C+IR+IS", []status.Flag{C, IR, IS}, 0},
		{"C+G+IR+IS", []status.Flag{C, G, IR, IS}, 0},
	}
	require.Len(t, cases, 16)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s status.Set
			for _, f := range tc.flags {
				s |= status.Set(f)
			}
			d := status.Derive(s)
			for _, f := range []status.Flag{status.Open, status.InProcess, status.Finished} {
				assert.Equal(t, f == tc.want, d.Has(f), "bandera derivada %s", f)
			}
			assert.Zero(t, d.Primitives(), "Derive solo devuelve banderas derivadas")
		})
	}
}

func TestDerive_IgnoraDerivadasDeEntrada(t *testing.T) {
	s := status.Set(status.Finished) | status.Set(status.GoodsReceipt)
	assert.Equal(t, status.Set(status.InProcess), status.Derive(s))
}

func TestDerive_CanceladoAnulaTodo(t *testing.T) {
	s := status.New(status.GoodsReceipt, status.InvoiceReceipt, status.InvoiceSettled, status.Canceled)
	assert.False(t, s.Has(status.Open))
	assert.False(t, s.Has(status.InProcess))
	assert.False(t, s.Has(status.Finished))
	assert.True(t, s.Has(status.GoodsReceipt), "las primitivas se conservan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve / With / ParseFlag
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_VacioEsError(t *testing.T) {
	_, err := status.Resolve(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyStatus)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "debe ser una falla de validación")
	assert.Equal(t, "el estado no debe estar vacío", err.Error())
}

func TestResolve_RecalculaDerivadas(t *testing.T) {
	// Derivadas inconsistentes en la entrada: se descartan.
	in := status.Set(status.GoodsReceipt) | status.Set(status.Open) | status.Set(status.Finished)
	got, err := status.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, status.New(status.GoodsReceipt), got)
}

func TestWith(t *testing.T) {
	s := status.New()
	assert.True(t, s.Has(status.Open))

	s = s.With(status.GoodsReceipt, true)
	assert.True(t, s.Has(status.InProcess))
	assert.False(t, s.Has(status.Open))

	s = s.With(status.InvoiceReceipt, true).With(status.InvoiceSettled, true)
	assert.True(t, s.Has(status.Finished))

	s = s.With(status.Canceled, true)
	assert.Zero(t, s.Derived())

	s = s.With(status.Canceled, false).With(status.GoodsReceipt, false)
	assert.True(t, s.Has(status.InProcess))
}

func TestParseFlag(t *testing.T) {
	f, err := status.ParseFlag("INVOICE_SETTLED")
	require.NoError(t, err)
	assert.Equal(t, status.InvoiceSettled, f)
	assert.True(t, f.IsPrimitive())

	f, err = status.ParseFlag("FINISHED")
	require.NoError(t, err)
	assert.False(t, f.IsPrimitive())

	_, err = status.ParseFlag("SHIPPED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// JSON
// ──────────────────────────────────────────────────────────────────────────────

func TestJSON_ListaDeNombres(t *testing.T) {
	data, err := json.Marshal(status.New(status.GoodsReceipt))
	require.NoError(t, err)
	assert.JSONEq(t, `["GOODS_RECEIPT","IN_PROCESS"]`, string(data))

	var s status.Set
	require.NoError(t, json.Unmarshal([]byte(`["GOODS_RECEIPT","INVOICE_RECEIPT","INVOICE_SETTLED","OPEN"]`), &s))
	assert.True(t, s.Has(status.Finished))
	assert.False(t, s.Has(status.Open), "las derivadas recibidas se recalculan")

	require.NoError(t, json.Unmarshal([]byte(`[]`), &s))
	assert.Zero(t, s)

	assert.Error(t, json.Unmarshal([]byte(`["NOPE"]`), &s))
}
