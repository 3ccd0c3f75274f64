package inventory

import "github.com/jhoicas/erp-conciliacion/internal/domain/status"

// Transition cambio de estado relevante para el inventario.
type Transition int

const (
	TransitionNone Transition = iota
	// TransitionReceive mercancía recibida: suma las líneas nuevas.
	TransitionReceive
	// TransitionUnreceive se revierte la recepción: resta las líneas anteriores.
	TransitionUnreceive
	// TransitionCancel orden recibida que se cancela: resta las líneas anteriores.
	TransitionCancel
	// TransitionUncancel se revierte la cancelación de una orden recibida: suma las líneas nuevas.
	TransitionUncancel
	// TransitionItemsChanged orden ya recibida cuyas líneas se editaron: aplica la diferencia.
	TransitionItemsChanged
	// TransitionProduce orden de producción terminada.
	TransitionProduce
	// TransitionUnproduce orden de producción que deja de estar terminada.
	TransitionUnproduce
)

var transitionNames = [...]string{
	"NONE", "RECEIVE", "UNRECEIVE", "CANCEL", "UNCANCEL", "ITEMS_CHANGED", "PRODUCE", "UNPRODUCE",
}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return "UNKNOWN"
}

// goodsKey proyección del par (anterior, nuevo) sobre GOODS_RECEIPT y CANCELED.
type goodsKey struct {
	priorReceived, priorCanceled bool
	nextReceived, nextCanceled   bool
}

// goodsTransitions tabla completa de transiciones de mercancía. La mercancía de una orden
// cuenta en inventario solo si está recibida y no cancelada; cada fila lleva esa
// contribución del estado anterior al nuevo.
var goodsTransitions = map[goodsKey]Transition{
	{false, false, false, false}: TransitionNone,
	{false, false, false, true}:  TransitionNone,
	{false, true, false, false}:  TransitionNone,
	{false, true, false, true}:   TransitionNone,

	{false, false, true, false}: TransitionReceive,
	{false, false, true, true}:  TransitionNone, // no aplica "recepción suma": llega cancelada
	{false, true, true, false}:  TransitionReceive,
	{false, true, true, true}:   TransitionNone, // no aplica "recepción suma": sigue cancelada

	{true, false, false, false}: TransitionUnreceive,
	{true, false, false, true}:  TransitionUnreceive,
	{true, true, false, false}:  TransitionNone, // no aplica "desrecepción resta": la cancelación ya restó
	{true, true, false, true}:   TransitionNone, // no aplica "desrecepción resta": la cancelación ya restó

	{true, false, true, false}: TransitionItemsChanged,
	{true, false, true, true}:  TransitionCancel,
	{true, true, true, false}:  TransitionUncancel,
	{true, true, true, true}:   TransitionNone, // no aplica "recibida edita por diferencia": cancelada no cuenta
}

// DetectGoodsTransition determina la transición de mercancía entre dos estados de una orden
// de compra o venta.
func DetectGoodsTransition(prior, next status.Set) Transition {
	return goodsTransitions[goodsKey{
		priorReceived: prior.Has(status.GoodsReceipt),
		priorCanceled: prior.Has(status.Canceled),
		nextReceived:  next.Has(status.GoodsReceipt),
		nextCanceled:  next.Has(status.Canceled),
	}]
}

// DetectProductionTransition determina la transición de una orden de producción.
// Si la orden sigue terminada, las líneas editadas se concilian por diferencia.
func DetectProductionTransition(priorFinished, nextFinished bool) Transition {
	switch {
	case !priorFinished && nextFinished:
		return TransitionProduce
	case priorFinished && !nextFinished:
		return TransitionUnproduce
	case priorFinished && nextFinished:
		return TransitionItemsChanged
	default:
		return TransitionNone
	}
}

// DetectPaymentTransition para INVOICE_SETTLED: +1 al saldarse, -1 al revertirse, 0 sin cambio.
func DetectPaymentTransition(prior, next status.Set) int {
	was, is := prior.Has(status.InvoiceSettled), next.Has(status.InvoiceSettled)
	switch {
	case !was && is:
		return 1
	case was && !is:
		return -1
	default:
		return 0
	}
}
