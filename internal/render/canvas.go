package render

// Canvas is a retained Surface. Primitives are kept in the order they were
// added, which is also their drawing order.
//
// A Canvas is not safe for concurrent use; it belongs to the goroutine that
// ticks and draws its overlay.
type Canvas struct {
	order []ID
	items map[ID]Primitive
}

func NewCanvas() *Canvas {
	return &Canvas{items: make(map[ID]Primitive)}
}

// Add inserts p on top of everything else. Adding an id that is already
// present replaces it in place.
func (c *Canvas) Add(p Primitive) {
	if _, ok := c.items[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.items[p.ID] = p
}

// Update replaces a known primitive. Unknown ids are ignored.
func (c *Canvas) Update(p Primitive) {
	if _, ok := c.items[p.ID]; ok {
		c.items[p.ID] = p
	}
}

// Remove drops a primitive. Unknown ids are ignored.
func (c *Canvas) Remove(id ID) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Get returns the primitive with the given id.
func (c *Canvas) Get(id ID) (Primitive, bool) {
	p, ok := c.items[id]
	return p, ok
}

func (c *Canvas) Len() int {
	return len(c.order)
}

// Primitives returns a snapshot in drawing order.
func (c *Canvas) Primitives() []Primitive {
	out := make([]Primitive, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Reset drops every primitive.
func (c *Canvas) Reset() {
	c.order = c.order[:0]
	clear(c.items)
}
