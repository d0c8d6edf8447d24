package newsindex

import (
	"bufio"
	"io"
	"os"
)

// FileStopWordIterator is a StopWordIterator over a file with one
// candidate word per line. Blank lines yield empty strings, which load
// skips.
type FileStopWordIterator struct {
	scanner *bufio.Scanner
	file    *os.File
}

// OpenStopWordFile opens path and returns an iterator over its lines.
// The caller must call Close once loading is done.
func OpenStopWordFile(path string) (*FileStopWordIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileStopWordIterator{scanner: bufio.NewScanner(f), file: f}, nil
}

func (it *FileStopWordIterator) Next() (string, bool, error) {
	if it.scanner.Scan() {
		return it.scanner.Text(), true, nil
	}
	if err := it.scanner.Err(); err != nil && err != io.EOF {
		return "", false, err
	}
	return "", false, nil
}

func (it *FileStopWordIterator) Close() error {
	return it.file.Close()
}
