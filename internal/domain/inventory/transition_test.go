package inventory_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-conciliacion/internal/domain/inventory"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

func goods(received, canceled bool) status.Set {
	var flags []status.Flag
	if received {
		flags = append(flags, status.GoodsReceipt)
	}
	if canceled {
		flags = append(flags, status.Canceled)
	}
	return status.New(flags...)
}

// Tabla completa: (recibida, cancelada) anterior × (recibida, cancelada) nueva.
func TestDetectGoodsTransition_Tabla(t *testing.T) {
	N, R, U, C, X, I := inventory.TransitionNone, inventory.TransitionReceive, inventory.TransitionUnreceive,
		inventory.TransitionCancel, inventory.TransitionUncancel, inventory.TransitionItemsChanged
	cases := []struct {
		pr, pc, nr, nc bool
		want           inventory.Transition
	}{
		{false, false, false, false, N},
		{false, false, false, true, N},
		{false, true, false, false, N},
		{false, true, false, true, N},
		{false, false, true, false, R},
		{false, false, true, true, N},
		{false, true, true, false, R},
		{false, true, true, true, N},
		{true, false, false, false, U},
		{true, false, false, true, U},
		{true, true, false, false, N},
		{true, true, false, true, N},
		{true, false, true, false, I},
		{true, false, true, true, C},
		{true, true, true, false, X},
		{true, true, true, true, N},
	}
	for _, tc := range cases {
		name := fmt.Sprintf("%v%v_%v%v", tc.pr, tc.pc, tc.nr, tc.nc)
		t.Run(name, func(t *testing.T) {
			got := inventory.DetectGoodsTransition(goods(tc.pr, tc.pc), goods(tc.nr, tc.nc))
			assert.Equal(t, tc.want, got, "transición %s", got)
		})
	}
}

func TestDetectGoodsTransition_IgnoraOtrasBanderas(t *testing.T) {
	prior := status.New(status.InvoiceReceipt)
	next := status.New(status.InvoiceReceipt, status.InvoiceSettled, status.GoodsReceipt)
	assert.Equal(t, inventory.TransitionReceive, inventory.DetectGoodsTransition(prior, next))
}

func TestDetectProductionTransition(t *testing.T) {
	assert.Equal(t, inventory.TransitionNone, inventory.DetectProductionTransition(false, false))
	assert.Equal(t, inventory.TransitionProduce, inventory.DetectProductionTransition(false, true))
	assert.Equal(t, inventory.TransitionUnproduce, inventory.DetectProductionTransition(true, false))
	assert.Equal(t, inventory.TransitionItemsChanged, inventory.DetectProductionTransition(true, true))
}

func TestDetectPaymentTransition(t *testing.T) {
	settled := status.New(status.InvoiceSettled)
	open := status.New()
	assert.Equal(t, 1, inventory.DetectPaymentTransition(open, settled))
	assert.Equal(t, -1, inventory.DetectPaymentTransition(settled, open))
	assert.Equal(t, 0, inventory.DetectPaymentTransition(settled, settled.With(status.GoodsReceipt, true)))
	assert.Equal(t, 0, inventory.DetectPaymentTransition(open, open))
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "RECEIVE", inventory.TransitionReceive.String())
	assert.Equal(t, "UNKNOWN", inventory.Transition(99).String())
}
