package component

// Name is a display label. Name pools keep insertion order across removals so
// listings stay stable.
type Name struct {
	Value  string
	Prefab string // prefab the entity was spawned from, if any
}

func (Name) InPlaceDelete() bool { return true }

// Item is one stack in an Inventory.
type Item struct {
	ID    int32
	Count int32
}

// Inventory owns a slice, so registry copies duplicate it through Clone.
type Inventory struct {
	Items []Item
}

func (inv Inventory) Clone() Inventory {
	return Inventory{Items: append([]Item(nil), inv.Items...)}
}

// Total returns the summed count of id across all stacks.
func (inv Inventory) Total(id int32) int32 {
	var n int32
	for _, it := range inv.Items {
		if it.ID == id {
			n += it.Count
		}
	}
	return n
}
