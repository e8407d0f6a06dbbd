// Package translator composes the fixed test-suite schema and exposes the
// single translate-whole-document operation.
package translator

import (
	"github.com/ethstm/ethstm/internal/compilecache"
	"github.com/ethstm/ethstm/internal/schema"
)

// Translator normalizes a raw test-suite document: every test case's
// transaction is validated field by field and its data shorthand expanded
// to literal 0x-prefixed hex.
//
// A Translator owns one compile cache, shared by every data field resolved
// during its Translate calls. Callers use a fresh Translator per input file
// so compilation is never shared across independent inputs.
type Translator struct {
	suite *schema.Collection
	cache *compilecache.Cache
}

// New creates a translator with a fresh compile cache.
func New() *Translator {
	return newWith(compilecache.New())
}

// NewWithInvoker creates a translator whose compile cache uses a custom
// compiler invoker. Tests use this to observe or fake compilation.
func NewWithInvoker(inv compilecache.Invoker) *Translator {
	return newWith(compilecache.NewWithInvoker(inv))
}

func newWith(cache *compilecache.Cache) *Translator {
	transaction := schema.NewRecord(
		schema.Field{Name: "data", Parser: schema.Data{Resolver: cache}},
		schema.Field{Name: "gasLimit", Parser: schema.UInt},
		schema.Field{Name: "gasPrice", Parser: schema.UInt},
		schema.Field{Name: "nonce", Parser: schema.UInt},
		schema.Field{Name: "secretKey", Parser: schema.SecretKey},
		schema.Field{Name: "to", Parser: schema.Address},
		schema.Field{Name: "value", Parser: schema.UInt},
	)

	testCase := schema.NewRecord(
		schema.Field{Name: "env", Parser: schema.Opaque{}},
		schema.Field{Name: "logs", Parser: schema.Opaque{}},
		schema.Field{Name: "out", Parser: schema.Opaque{}},
		schema.Field{Name: "post", Parser: schema.Opaque{}},
		schema.Field{Name: "postStateRoot", Parser: schema.Opaque{}},
		schema.Field{Name: "pre", Parser: schema.Opaque{}},
		schema.Field{Name: "transaction", Parser: transaction},
	)

	return &Translator{
		suite: schema.NewCollection(schema.IdentityKey, testCase),
		cache: cache,
	}
}

// Translate validates and normalizes a whole suite document. It fails with
// a *schema.Error on any schema violation anywhere in the document; later
// entries are never evaluated after an earlier one fails.
func (t *Translator) Translate(doc map[string]any) (map[string]any, error) {
	return t.suite.Apply(doc)
}
