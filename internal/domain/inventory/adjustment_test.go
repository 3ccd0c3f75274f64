package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/inventory"
)

func TestBatch_AcumulaYOrdena(t *testing.T) {
	b := inventory.NewBatch()
	b.Add("Y", dec(-20))
	b.Add("X", dec(10))
	b.Add("Z", dec(4))
	b.Add("Z", dec(-4)) // neto cero: se omite
	b.Add("Y", dec(5))

	adj := b.Adjustments()
	require.Len(t, adj, 2)
	assert.Equal(t, "X", adj[0].MaterialID, "primero las que suman")
	assert.True(t, adj[0].Delta.Equal(dec(10)))
	assert.Equal(t, "Y", adj[1].MaterialID)
	assert.True(t, adj[1].Delta.Equal(dec(-15)))
	assert.Equal(t, 2, b.Len())
}

func TestBatch_AddItemsConSigno(t *testing.T) {
	items := []entity.OrderItem{item("1", "A", 3), item("2", "A", 2), item("3", "B", 1)}

	b := inventory.NewBatch()
	b.AddItems(items, -1)

	adj := b.Adjustments()
	require.Len(t, adj, 2)
	assert.True(t, adj[0].Delta.Equal(dec(-5)))
	assert.True(t, adj[1].Delta.Equal(dec(-1)))
}

func TestBatch_Vacio(t *testing.T) {
	assert.Empty(t, inventory.NewBatch().Adjustments())
}
