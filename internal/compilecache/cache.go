// Package compilecache memoizes source-to-bytecode compilation for one
// translation run.
//
// The cache maps a source file path to its compiled bytecode, rendered as a
// 0x-prefixed lowercase hex string. A path is compiled at most once per
// cache; repeated references return the stored value without spawning a
// second compiler process. The cache is owned by a single translator and is
// never shared across translation runs, so no locking is needed.
package compilecache

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ethstm/ethstm/internal/schema"
)

var log = logrus.WithField("prefix", "compile")

// compilers is the fixed mapping of source file extensions to compiler
// programs. Extending it is a code change, not configuration.
var compilers = map[string]string{
	".se": "serpent",
}

// Cache memoizes compile results for the lifetime of one translator.
type Cache struct {
	entries map[string]string
	invoker Invoker
}

// New creates a cache that invokes real compiler subprocesses.
func New() *Cache {
	return NewWithInvoker(execInvoker{})
}

// NewWithInvoker creates a cache with a custom invoker. Tests use this to
// count invocations without spawning processes.
func NewWithInvoker(inv Invoker) *Cache {
	return &Cache{entries: make(map[string]string), invoker: inv}
}

// Resolve returns the bytecode for the source file at path, compiling it on
// the first request. The compiler is chosen by file extension; an
// unrecognized extension fails before any subprocess is spawned. Compiler
// failure is fatal to the translation, never retried.
func (c *Cache) Resolve(path string) (string, error) {
	if code, ok := c.entries[path]; ok {
		log.Debugf("cache hit for %s", path)
		return code, nil
	}

	program, ok := compilers[filepath.Ext(path)]
	if !ok {
		return "", &schema.Error{
			Code:    schema.ErrUnsupportedTarget,
			Message: fmt.Sprintf("no known compiler for %q", path),
			Raw:     path,
		}
	}

	log.Debugf("compiling %s with %s", path, program)
	out, err := c.invoker.Invoke(program, path)
	if err != nil {
		return "", &schema.Error{
			Code:    schema.ErrCompilerFailure,
			Message: fmt.Sprintf("compiling %q with %s", path, program),
			Raw:     path,
			Err:     err,
		}
	}

	code := "0x" + hex.EncodeToString(out)
	c.entries[path] = code
	return code, nil
}

// Len reports how many paths have been compiled so far.
func (c *Cache) Len() int {
	return len(c.entries)
}
