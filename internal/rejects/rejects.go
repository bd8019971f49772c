// Package rejects reconstructs the correctable subset of the input file
// after a run: the header line plus every original line whose record
// failed to import, byte-for-byte. Re-reading the original file instead
// of re-serializing parsed records is deliberate — the operator fixes the
// exact text they wrote, including any irregular quoting the parser
// normalized away.
package rejects

import (
	"bufio"
	"fmt"
	"os"
)

// Write produces the rejects file at outPath from the original input at
// inputPath. It is a no-op when no lines failed. Any pre-existing file at
// outPath is deleted first. The failed set is 1-based line numbers; the
// header (line 1) is always included in the output.
func Write(inputPath, outPath string, failed map[int]struct{}) error {
	if len(failed) == 0 {
		return nil
	}

	if _, err := os.Stat(outPath); err == nil {
		if err := os.Remove(outPath); err != nil {
			return fmt.Errorf("failed to delete existing rejects file: %w", err)
		}
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to re-open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create rejects file: %w", err)
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		_, include := failed[line]
		if line == 1 || include {
			w.Write(scanner.Bytes())
			w.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return fmt.Errorf("failed reading input file: %w", err)
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("failed writing rejects file: %w", err)
	}
	return out.Close()
}
