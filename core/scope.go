package core

// ScopeChain is an immutable stack of scope values. The zero chain
// returned by NewScopeChain is empty; Push returns a new chain that shares
// its tail with the receiver.
type ScopeChain struct {
	parent *ScopeChain
	value  any
	depth  int
}

// NewScopeChain returns an empty chain.
func NewScopeChain() *ScopeChain {
	return &ScopeChain{}
}

// Push returns a chain with v as the innermost scope. Pushing onto a nil
// chain starts a new one.
func (c *ScopeChain) Push(v any) *ScopeChain {
	if c == nil {
		c = NewScopeChain()
	}
	return &ScopeChain{parent: c, value: v, depth: c.depth + 1}
}

// Len returns the number of scopes on the chain.
func (c *ScopeChain) Len() int {
	if c == nil {
		return 0
	}
	return c.depth
}

// Each calls fn for every scope, outermost first.
func (c *ScopeChain) Each(fn func(scope any)) {
	n := c.Len()
	if n == 0 {
		return
	}
	values := make([]any, n)
	for node := c; node.depth > 0; node = node.parent {
		values[node.depth-1] = node.value
	}
	for _, v := range values {
		fn(v)
	}
}
