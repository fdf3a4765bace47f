package rule

// ValueKind enumerates the closed set of places a command can read or
// write. Modeled as a tagged enum rather than an open interface hierarchy
// (design doc Section 9): there are exactly three kinds, the switch is
// bounded, and the hot path stays branch-predictable.
type ValueKind uint8

const (
	ValueLocal ValueKind = iota
	ValueGlobal
	ValueMap
)

// Value is an IRuleValue: it names both the accessor kind and the resource
// or map it addresses within that kind (e.g. Local("Water") or
// Map("Grass")).
type Value struct {
	Kind ValueKind
	Name string
}

// Local builds a Value that reads/writes the firing unit's local bag.
func Local(resourceName string) Value { return Value{Kind: ValueLocal, Name: resourceName} }

// Global builds a Value that reads/writes the city's global bag.
func Global(resourceName string) Value { return Value{Kind: ValueGlobal, Name: resourceName} }

// Map builds a Value that reads/writes the named map at the context's
// current cell (and, for Add/Remove, radius).
func Map(mapName string) Value { return Value{Kind: ValueMap, Name: mapName} }

// Get returns the current scalar this value addresses: the resource amount
// for Local/Global, or the single cell value at (ctx.U, ctx.V) for Map
// (radius does not apply to Test — it is a scatter concern of Add/Remove).
func (v Value) Get(ctx *Context) uint32 {
	switch v.Kind {
	case ValueLocal:
		if ctx.Locals == nil {
			return 0
		}
		return ctx.Locals.Get(v.Name)
	case ValueGlobal:
		return ctx.Globals.Get(v.Name)
	case ValueMap:
		m := ctx.City.MapByName(v.Name)
		if m == nil {
			return 0
		}
		return m.Get(ctx.U, ctx.V)
	}
	return 0
}

// CanAdd reports whether Add(ctx, amount) is a valid operation. Local and
// Global bags accept an Add attempt for any resource type they declare
// (Add saturates rather than failing) and reject an undeclared one; a Map
// value is valid whenever the named map exists.
func (v Value) CanAdd(ctx *Context, amount uint32) bool {
	switch v.Kind {
	case ValueLocal:
		return ctx.Locals != nil && ctx.Locals.CanAdd(v.Name, amount)
	case ValueGlobal:
		return ctx.Globals.CanAdd(v.Name, amount)
	case ValueMap:
		return ctx.City.MapByName(v.Name) != nil
	}
	return false
}

// CanRemove reports whether Remove(ctx, amount) would succeed: enough
// amount currently held, for Local/Global; for Map, enough total across
// the radius disk (radius 0 means just the center cell).
func (v Value) CanRemove(ctx *Context, amount uint32) bool {
	switch v.Kind {
	case ValueLocal:
		return ctx.Locals != nil && ctx.Locals.CanRemove(v.Name, amount)
	case ValueGlobal:
		return ctx.Globals.CanRemove(v.Name, amount)
	case ValueMap:
		m := ctx.City.MapByName(v.Name)
		if m == nil {
			return false
		}
		return mapRadiusTotal(m, ctx.U, ctx.V, ctx.Radius) >= amount
	}
	return false
}

// Add performs the add, saturating at capacity.
func (v Value) Add(ctx *Context, amount uint32) {
	switch v.Kind {
	case ValueLocal:
		if ctx.Locals != nil {
			_, _ = ctx.Locals.Add(v.Name, amount)
		}
	case ValueGlobal:
		_, _ = ctx.Globals.Add(v.Name, amount)
	case ValueMap:
		m := ctx.City.MapByName(v.Name)
		if m == nil {
			return
		}
		if ctx.Radius > 0 {
			m.AddRadius(ctx.U, ctx.V, ctx.Radius, amount)
		} else {
			m.Add(ctx.U, ctx.V, amount)
		}
	}
}

// Remove performs the remove. A Local/Global remove leaves the bag
// unchanged if it holds less than amount; a Map remove floors each cell at
// zero.
func (v Value) Remove(ctx *Context, amount uint32) {
	switch v.Kind {
	case ValueLocal:
		if ctx.Locals != nil {
			_ = ctx.Locals.Remove(v.Name, amount)
		}
	case ValueGlobal:
		_ = ctx.Globals.Remove(v.Name, amount)
	case ValueMap:
		m := ctx.City.MapByName(v.Name)
		if m == nil {
			return
		}
		if ctx.Radius > 0 {
			m.RemoveRadius(ctx.U, ctx.V, ctx.Radius, amount)
		} else {
			m.Remove(ctx.U, ctx.V, amount)
		}
	}
}

func mapRadiusTotal(m interface {
	Get(u, v int) uint32
	InBounds(u, v int) bool
}, u, v, radius int) uint32 {
	var total uint32
	for du := -radius; du <= radius; du++ {
		for dv := -radius; dv <= radius; dv++ {
			if m.InBounds(u+du, v+dv) {
				total += m.Get(u+du, v+dv)
			}
		}
	}
	return total
}
