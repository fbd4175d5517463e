package logtail

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultChunkSize is the number of bytes read per backward step.
const DefaultChunkSize = 4096

// Read returns at most maxLines non-blank lines from the end of the file at
// path, oldest first. Missing, unreadable and non-regular files yield nil, nil.
func Read(path string, maxLines int) ([]string, error) {
	return ReadChunked(path, maxLines, DefaultChunkSize)
}

// ReadChunked is Read with an explicit chunk size.
func ReadChunked(path string, maxLines, chunkSize int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}

	lines, err := readBackward(file, info.Size(), maxLines, chunkSize)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// readBackward walks r from size towards offset zero one chunk at a time.
// Only the bytes of the current chunk plus the unfinished line carried from
// the previous step are held in memory.
func readBackward(r io.ReaderAt, size int64, maxLines, chunkSize int) ([]string, error) {
	newestFirst := make([]string, 0, maxLines)
	var carry []byte
	pos := size

	for pos > 0 && len(newestFirst) < maxLines {
		n := int64(chunkSize)
		if n > pos {
			n = pos
		}
		pos -= n

		chunk := make([]byte, n, n+int64(len(carry)))
		got, err := r.ReadAt(chunk, pos)
		if got < len(chunk) {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		chunk = append(chunk, carry...)

		parts := bytes.Split(chunk, []byte{'\n'})
		if pos > 0 {
			// The first part may continue in the previous chunk.
			carry = parts[0]
			parts = parts[1:]
		} else {
			carry = nil
		}

		for i := len(parts) - 1; i >= 0 && len(newestFirst) < maxLines; i-- {
			line := strings.TrimSuffix(string(parts[i]), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			newestFirst = append(newestFirst, line)
		}
	}

	lines := make([]string, len(newestFirst))
	for i, line := range newestFirst {
		lines[len(newestFirst)-1-i] = line
	}
	return lines, nil
}
