package switching

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// Codec reads and writes .switch files. The zero value logs to
// slog.Default().
type Codec struct {
	Logger *slog.Logger
}

func (cd Codec) logger() *slog.Logger {
	if cd.Logger != nil {
		return cd.Logger
	}
	return slog.Default()
}

// WriteTemplate writes baseName+".switch" with the placeholder value for
// every input and AND node of c, and returns the path written.
func WriteTemplate(c *aig.Circuit, baseName string) (string, error) {
	return Codec{}.WriteTemplate(c, baseName)
}

// WriteValues writes baseName+".switch" carrying the values of t.
func WriteValues(c *aig.Circuit, t Table, baseName string) (string, error) {
	return Codec{}.WriteValues(c, t, baseName)
}

// WriteTemplate is the package-level WriteTemplate with cd's logger.
func (cd Codec) WriteTemplate(c *aig.Circuit, baseName string) (string, error) {
	if c == nil || baseName == "" {
		return "", fmt.Errorf("write template: circuit and base name are required: %w", ErrInvalidArgument)
	}
	path := baseName + Suffix
	err := writeAtomic(path, func(w *bufio.Writer) {
		writeRecords(w, c, func(int) string { return strconv.FormatFloat(Placeholder, 'g', -1, 64) })
	})
	if err != nil {
		cd.logger().Error("switching template not written", "path", path, "error", err)
		return "", err
	}
	filesWritten.WithLabelValues("template").Inc()
	cd.logger().Info("switching template file written", "path", path,
		"inputs", len(c.Inputs()), "nodes", c.NumAnds())
	return path, nil
}

// WriteValues is the package-level WriteValues with cd's logger.
func (cd Codec) WriteValues(c *aig.Circuit, t Table, baseName string) (string, error) {
	if c == nil || baseName == "" {
		return "", fmt.Errorf("write values: circuit and base name are required: %w", ErrInvalidArgument)
	}
	if len(t) != c.NumObjects() {
		return "", fmt.Errorf("write values: table has %d entries, circuit needs %d: %w",
			len(t), c.NumObjects(), ErrInvalidArgument)
	}
	path := baseName + Suffix
	err := writeAtomic(path, func(w *bufio.Writer) {
		writeRecords(w, c, func(id int) string { return strconv.FormatFloat(t[id], 'g', -1, 64) })
	})
	if err != nil {
		cd.logger().Error("switching values not written", "path", path, "error", err)
		return "", err
	}
	filesWritten.WithLabelValues("values").Inc()
	cd.logger().Info("switching file written", "path", path)
	return path, nil
}

func writeRecords(w *bufio.Writer, c *aig.Circuit, value func(id int) string) {
	fmt.Fprintln(w, "# Switching Activities Template File")
	fmt.Fprintln(w, "# Format: ID [Switching Value Placeholder]")
	fmt.Fprintf(w, "# CIs: %d\n", len(c.Inputs()))
	fmt.Fprintf(w, "# Nodes: %d\n\n", c.MaxID())

	for i, id := range c.Inputs() {
		fmt.Fprintf(w, "%s %d: ID=%d %s\n", tagInput, i, id, value(id))
	}
	for i, id := range c.DFS() {
		fmt.Fprintf(w, "%s %d: ID=%d %s\n", tagNode, i, id, value(id))
	}
}

// writeAtomic fills a temporary file next to path and renames it into place,
// so path is either left untouched or holds the complete contents.
func writeAtomic(path string, fill func(w *bufio.Writer)) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	fill(w)
	if err := w.Flush(); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
