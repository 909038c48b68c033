package main

import (
	"fmt"
	"io"
	"os"
)

// readSource reads the named file, or stdin when args is empty.
func readSource(args []string) (source []byte, filename string, err error) {
	if len(args) == 0 {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return source, "", nil
	}

	filename = args[0]
	source, err = os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return source, filename, nil
}
