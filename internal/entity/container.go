package entity

// Container sizes.
const (
	InventorySize = 28
	EquipmentSize = 14
)

// Item is a stack of one item id.
type Item struct {
	ItemID int `json:"itemId"`
	Amount int `json:"amount"`
}

// Container is a fixed number of item slots; a nil slot is empty.
type Container struct {
	Items []*Item
}

func NewContainer(size int) *Container {
	return &Container{Items: make([]*Item, size)}
}

func (c *Container) Size() int { return len(c.Items) }

// Get returns the item at slot, or nil for empty or out of range slots.
func (c *Container) Get(slot int) *Item {
	if slot < 0 || slot >= len(c.Items) {
		return nil
	}
	return c.Items[slot]
}

func (c *Container) Set(slot int, it *Item) bool {
	if slot < 0 || slot >= len(c.Items) {
		return false
	}
	c.Items[slot] = it
	return true
}

// Remove empties slot and returns what was there.
func (c *Container) Remove(slot int) *Item {
	it := c.Get(slot)
	if it != nil {
		c.Items[slot] = nil
	}
	return it
}

// FirstFree returns the first empty slot, or -1.
func (c *Container) FirstFree() int {
	for i, it := range c.Items {
		if it == nil {
			return i
		}
	}
	return -1
}

func (c *Container) HasSpace() bool { return c.FirstFree() != -1 }

// Add places it in the first free slot.
func (c *Container) Add(it *Item) (int, bool) {
	slot := c.FirstFree()
	if slot == -1 {
		return -1, false
	}
	c.Items[slot] = it
	return slot, true
}

// Count returns the number of occupied slots.
func (c *Container) Count() int {
	n := 0
	for _, it := range c.Items {
		if it != nil {
			n++
		}
	}
	return n
}

// snapshot deep-copies the slots.
func (c *Container) snapshot() []*Item {
	out := make([]*Item, len(c.Items))
	for i, it := range c.Items {
		if it != nil {
			cp := *it
			out[i] = &cp
		}
	}
	return out
}

func (c *Container) load(items []*Item) {
	for i := range c.Items {
		c.Items[i] = nil
	}
	for i, it := range items {
		if i >= len(c.Items) {
			break
		}
		if it != nil {
			cp := *it
			c.Items[i] = &cp
		}
	}
}
