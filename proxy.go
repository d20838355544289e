package understory

// AttributeRouter routes member lookups between a stub-backed context and
// its concrete counterpart through one explicit capability surface, instead
// of blind delegation.
//
// Routing policy: the stub wins. Only when the stub scope yields nothing for
// a name does the concrete counterpart answer. Enumeration follows the same
// rule per name: stub-declared names, then concrete names the stub does not
// declare.
type AttributeRouter struct {
	stub     *StubContext
	concrete Context
}

// NewAttributeRouter builds a router for a stub-backed context. For an
// overlaid module the concrete side is the paired module; stub-only contexts
// route everything to the stub.
func NewAttributeRouter(stub *StubContext) *AttributeRouter {
	return &AttributeRouter{
		stub:     stub,
		concrete: stub.Concrete(),
	}
}

// Attribute resolves one member name.
func (r *AttributeRouter) Attribute(name string) []Name {
	if found := lookupAttribute(r.stub, name); len(found) > 0 {
		return found
	}
	if r.concrete != nil {
		return lookupAttribute(r.concrete, name)
	}
	return nil
}

// Attributes enumerates the member names the router can resolve: every stub
// attribute, plus concrete attributes the stub does not shadow.
func (r *AttributeRouter) Attributes() []Name {
	var out []Name
	seen := make(map[string]bool)
	for _, f := range r.stub.Filters(AttributeLookup) {
		for _, n := range f.Values() {
			seen[n.Value()] = true
			out = append(out, n)
		}
	}
	if r.concrete != nil {
		for _, f := range r.concrete.Filters(AttributeLookup) {
			for _, n := range f.Values() {
				if !seen[n.Value()] {
					out = append(out, n)
				}
			}
		}
	}
	return out
}

// Root resolves the outermost module context enclosing the routed context,
// for diagnostics. A context without a parent is its own root.
func (r *AttributeRouter) Root() Context {
	var current Context = r.stub
	for {
		sc, ok := current.(*StubContext)
		if !ok || sc.parent == nil {
			return current
		}
		current = sc.parent
	}
}

// lookupAttribute walks a context's attribute filters in order and returns
// the first filter's matches.
func lookupAttribute(c Context, name string) []Name {
	for _, f := range c.Filters(AttributeLookup) {
		if found := f.Get(name); len(found) > 0 {
			return found
		}
	}
	return nil
}
