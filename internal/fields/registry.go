package fields

import "fmt"

// Registry holds the static field table and its lookup indexes. It is
// built once at startup and read-only afterwards.
type Registry struct {
	order    []*Field
	byName   map[string]*Field
	bySource map[Source][]*Field
	writable map[int]*Field // by write register address
}

// NewRegistry indexes a field table. It panics on duplicate names or
// malformed entries: the table is the protocol contract with the physical
// device and cannot be validated against the peer at runtime, so a bad
// entry must stop the process before the first exchange.
func NewRegistry(table []Field) *Registry {
	r := &Registry{
		byName:   make(map[string]*Field, len(table)),
		bySource: make(map[Source][]*Field),
		writable: make(map[int]*Field),
	}

	for i := range table {
		f := &table[i]

		if f.Name == "" {
			panic(fmt.Sprintf("fields: entry %d has no name", i))
		}
		if _, dup := r.byName[f.Name]; dup {
			panic(fmt.Sprintf("fields: duplicate field name %q", f.Name))
		}
		if f.Address < 0 {
			panic(fmt.Sprintf("fields: %q has negative address %d", f.Name, f.Address))
		}
		switch f.Convert.Kind {
		case ScaledFloat, ScaledInt, TempDiff:
			if f.Convert.Divider == 0 {
				panic(fmt.Sprintf("fields: %q has zero divider", f.Name))
			}
		case Selector:
			if len(f.Convert.Levels) == 0 {
				panic(fmt.Sprintf("fields: selector %q has no levels", f.Name))
			}
		}
		if f.Writable() {
			if len(f.Allowed) == 0 {
				panic(fmt.Sprintf("fields: writable %q has empty allowed set", f.Name))
			}
			if prev, dup := r.writable[f.WriteAddress]; dup {
				panic(fmt.Sprintf("fields: write address %d claimed by both %q and %q",
					f.WriteAddress, prev.Name, f.Name))
			}
			r.writable[f.WriteAddress] = f
		}
		if f.DisplayName == "" {
			f.DisplayName = f.Name
		}

		r.order = append(r.order, f)
		r.byName[f.Name] = f
		r.bySource[f.Source] = append(r.bySource[f.Source], f)
	}

	return r
}

// All returns the fields in table order.
func (r *Registry) All() []*Field { return r.order }

// ByName looks a field up by its logical name.
func (r *Registry) ByName(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// BySource returns the fields bound to one read source, in table order.
func (r *Registry) BySource(src Source) []*Field { return r.bySource[src] }

// WritableByAddress looks a writable field up by its raw register address.
func (r *Registry) WritableByAddress(addr int) (*Field, bool) {
	f, ok := r.writable[addr]
	return f, ok
}
