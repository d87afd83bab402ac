// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/siemens/proxyhunter/types"
)

// Write writes the specified proxies in order, one per line in the form
// "<server>\t<origin>\n". Proxies without origin get an empty origin column.
func Write(w io.Writer, proxies []types.ValidatedProxy) error {
	bw := bufio.NewWriter(w)
	for _, proxy := range proxies {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", proxy.Server, proxy.Origin); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the specified proxies to the named file, creating or
// truncating it.
func WriteFile(path string, proxies []types.ValidatedProxy) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("cannot create output file, reason: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cannot write output file, reason: %w", cerr)
		}
	}()
	if err := Write(f, proxies); err != nil {
		return fmt.Errorf("cannot write output file, reason: %w", err)
	}
	return nil
}

// CheckWritable checks that the named output file can be written, without
// touching an already existing file. If the file doesn't exist yet, its
// directory must allow creating it.
func CheckWritable(path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("output file %q is a directory", path)
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("output file %q is not writable, reason: %w", path, err)
		}
		return f.Close()
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".proxyhunter-*")
	if err != nil {
		return fmt.Errorf("cannot create output file %q, reason: %w", path, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
