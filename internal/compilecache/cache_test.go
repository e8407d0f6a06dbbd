package compilecache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethstm/ethstm/internal/schema"
)

// countingInvoker returns fixed bytecode and records every invocation.
type countingInvoker struct {
	invocations []string
	output      []byte
	err         error
}

func (i *countingInvoker) Invoke(program, path string) ([]byte, error) {
	i.invocations = append(i.invocations, program+" "+path)
	if i.err != nil {
		return nil, i.err
	}
	return i.output, nil
}

func TestResolveCompilesOnFirstRequest(t *testing.T) {
	inv := &countingInvoker{output: []byte{0x60, 0x00}}
	c := NewWithInvoker(inv)

	code, err := c.Resolve("contracts/adder.se")
	require.NoError(t, err)
	assert.Equal(t, "0x6000", code)
	assert.Equal(t, []string{"serpent contracts/adder.se"}, inv.invocations)
}

func TestResolveMemoizesPerPath(t *testing.T) {
	inv := &countingInvoker{output: []byte{0xab}}
	c := NewWithInvoker(inv)

	first, err := c.Resolve("contracts/adder.se")
	require.NoError(t, err)
	second, err := c.Resolve("contracts/adder.se")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, inv.invocations, 1, "second lookup must not spawn a compiler")
	assert.Equal(t, 1, c.Len())
}

func TestResolveDistinctPathsCompileSeparately(t *testing.T) {
	inv := &countingInvoker{output: []byte{0x01}}
	c := NewWithInvoker(inv)

	_, err := c.Resolve("a.se")
	require.NoError(t, err)
	_, err = c.Resolve("b.se")
	require.NoError(t, err)

	assert.Len(t, inv.invocations, 2)
	assert.Equal(t, 2, c.Len())
}

func TestResolveUnknownExtensionFailsBeforeSpawn(t *testing.T) {
	inv := &countingInvoker{output: []byte{0x01}}
	c := NewWithInvoker(inv)

	_, err := c.Resolve("contracts/adder.xyz")
	require.Error(t, err)

	se, ok := err.(*schema.Error)
	require.True(t, ok)
	assert.Equal(t, schema.ErrUnsupportedTarget, se.Code)
	assert.Contains(t, se.Message, "contracts/adder.xyz")
	assert.Empty(t, inv.invocations, "no subprocess may be spawned for an unknown extension")
}

func TestResolveCompilerFailureIsFatal(t *testing.T) {
	inv := &countingInvoker{err: fmt.Errorf("exit status 1")}
	c := NewWithInvoker(inv)

	_, err := c.Resolve("bad.se")
	require.Error(t, err)

	se, ok := err.(*schema.Error)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCompilerFailure, se.Code)

	// A failed compile is not cached; the next resolve tries again (and a
	// failed translation never gets that far anyway).
	assert.Equal(t, 0, c.Len())
}

func TestResolveEmptyOutputIsEmptyHex(t *testing.T) {
	inv := &countingInvoker{output: nil}
	c := NewWithInvoker(inv)

	code, err := c.Resolve("empty.se")
	require.NoError(t, err)
	assert.Equal(t, "0x", code)
}
