package schema

// KeyFunc validates or rewrites an entry name in a collection.
type KeyFunc func(name string) (string, error)

// IdentityKey passes entry names through unvalidated.
func IdentityKey(name string) (string, error) {
	return name, nil
}

// Collection applies a key parser and a record schema uniformly across all
// entries of a named collection (every test case in a suite).
type Collection struct {
	key   KeyFunc
	value *Record
}

// NewCollection builds a collection schema.
func NewCollection(key KeyFunc, value *Record) *Collection {
	return &Collection{key: key, value: value}
}

// Apply validates every entry. Iteration order is unspecified; the first
// entry whose validation fails stops the walk, so entries after the failure
// point are never evaluated and their side effects never occur.
func (c *Collection) Apply(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for name, v := range in {
		kout, err := c.key(name)
		if err != nil {
			return nil, prefixField(err, name)
		}
		vout, err := c.value.Parse(v)
		if err != nil {
			return nil, prefixField(err, name)
		}
		out[kout] = vout
	}
	return out, nil
}
