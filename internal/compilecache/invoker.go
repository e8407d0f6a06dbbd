package compilecache

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Invoker runs a compiler program over one source file and returns the raw
// compiled bytecode.
type Invoker interface {
	Invoke(program, path string) ([]byte, error)
}

// execInvoker spawns the compiler as a blocking subprocess. The source file
// contents are fed on stdin and the entire stdout stream is the bytecode.
// There is no timeout: a hung compiler blocks the translation.
type execInvoker struct{}

func (execInvoker) Invoke(program, path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	cmd := exec.Command(program)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", program, err, stderr.String())
		}
		return nil, fmt.Errorf("%s: %w", program, err)
	}
	return stdout.Bytes(), nil
}
