package repository

import (
	"fmt"
	"testing"

	"campus/internal/domain"
)

// Дозагрузка позиций пишет в заказы через указатели, поэтому они обязаны
// указывать на итоговый массив среза, а не на вытесненную append-ом память.
func TestOrderRefs_SurviveSliceGrowth(t *testing.T) {
	out := make([]domain.Order, 0)
	for i := 0; i < 5; i++ {
		out = append(out, domain.Order{ID: fmt.Sprintf("order-%d", i)})
	}

	refs := orderRefs(out)
	if len(refs) != len(out) {
		t.Fatalf("expected %d refs, got %d", len(out), len(refs))
	}
	for i, o := range refs {
		if o != &out[i] {
			t.Fatalf("ref %d does not point into out", i)
		}
		o.Items = append(o.Items, domain.OrderLine{ItemID: o.ID, Quantity: 1, Price: 10})
	}

	for i, o := range out {
		if len(o.Items) != 1 || o.Items[0].ItemID != o.ID {
			t.Fatalf("out[%d] (%s) lost its line items: %v", i, o.ID, o.Items)
		}
	}
}
