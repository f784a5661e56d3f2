// Package safefile provides security-hardened, read-only file access.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotRegularFile is returned when attempting to open a file that is not a regular file.
// This includes symlinks, FIFOs, devices, sockets, and directories.
var ErrNotRegularFile = errors.New("not a regular file")

// ErrTooLarge is returned by ReadRegular when the file exceeds the size limit.
var ErrTooLarge = errors.New("file too large")

// OpenRegular opens a file read-only and verifies it is a regular file.
// This mitigates TOCTOU (time-of-check-time-of-use) race conditions where a file
// could be replaced with a symlink or special file between stat and open operations.
//
// The function:
//  1. Uses os.Lstat() to check the path without following symlinks
//  2. Opens the file
//  3. Stats the file descriptor to verify it's still a regular file
//
// The caller must close the returned file when done.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}

	// Reject symlinks, FIFOs, devices, sockets, directories
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	// Catches the file being replaced between Lstat and Open
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// ReadRegular reads a whole regular file and closes it before returning.
// The returned FileInfo is from the open descriptor, so its modification
// time belongs to the bytes that were read.
//
// maxBytes <= 0 disables the size limit.
func ReadRegular(path string, maxBytes int64) ([]byte, os.FileInfo, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), maxBytes)
	}

	var r io.Reader = f
	if maxBytes > 0 {
		// Read one byte past the limit to detect growth since Stat
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}

	return data, info, nil
}
