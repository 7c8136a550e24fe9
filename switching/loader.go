package switching

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

const (
	tagInput = "CI"
	tagNode  = "Node"

	// defaultBaseName names the template written for an unnamed circuit.
	defaultBaseName = "circuit"
)

// Load reads a .switch file for c. See Codec.Load.
func Load(c *aig.Circuit, path string) (Table, error) {
	return Codec{}.Load(c, path)
}

// Load reads the .switch file at path and returns a table holding one value
// per input and AND node of c.
//
// With an empty path nothing is read: a template is written to the
// circuit's name plus ".switch" and Load returns (nil, nil), or the write
// error.
//
// After leading blank and comment lines the file must hold exactly one CI
// record per input followed by one Node record per AND node. Content past
// the last Node record is ignored. Each record's ID= field decides where its
// value goes; the identifier must name a node of the right kind that has
// not been seen yet. On any error no table is returned.
func (cd Codec) Load(c *aig.Circuit, path string) (Table, error) {
	if c == nil {
		return nil, fmt.Errorf("load switching: nil circuit: %w", ErrInvalidArgument)
	}
	log := cd.logger()

	if path == "" {
		base := c.Name
		if base == "" {
			base = defaultBaseName
		}
		log.Warn("switching file not provided, generating a template", "circuit", c.Name, "base", base)
		if _, err := cd.WriteTemplate(c, base); err != nil {
			loadTotal.WithLabelValues("io_error").Inc()
			return nil, err
		}
		loadTotal.WithLabelValues("template").Inc()
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		loadTotal.WithLabelValues("io_error").Inc()
		log.Error("could not open switching file", "path", path, "error", err)
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	t, err := cd.read(c, &lineReader{sc: bufio.NewScanner(f)})
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
			loadTotal.WithLabelValues("io_error").Inc()
		} else {
			loadTotal.WithLabelValues("parse_error").Inc()
		}
		log.Error("switching file rejected", "path", path, "error", err)
		return nil, err
	}
	loadTotal.WithLabelValues("ok").Inc()
	log.Info("switching file loaded", "path", path, "inputs", len(c.Inputs()), "nodes", c.NumAnds())
	return t, nil
}

func (cd Codec) read(c *aig.Circuit, lr *lineReader) (Table, error) {
	t := NewTable(c)
	seen := make([]bool, len(t))

	sections := []struct {
		tag   string
		count int
		kind  func(int) bool
	}{
		{tagInput, len(c.Inputs()), c.IsInput},
		{tagNode, c.NumAnds(), c.IsAnd},
	}
	for _, s := range sections {
		for i := 0; i < s.count; i++ {
			line, ok := lr.next()
			if !ok {
				if err := lr.sc.Err(); errors.Is(err, bufio.ErrTooLong) {
					return nil, &ParseError{Section: s.tag, Index: i, Reason: "line too long"}
				} else if err != nil {
					return nil, &IOError{Op: "read", Err: err}
				}
				return nil, &ParseError{Section: s.tag, Index: i, Reason: "unexpected end of file"}
			}
			rec, err := parseRecord(line)
			if err == nil {
				err = rec.check(s.tag, i, s.kind, seen)
			}
			if err != nil {
				return nil, &ParseError{Section: s.tag, Index: i, Line: line, Reason: err.Error()}
			}
			seen[rec.id] = true
			t[rec.id] = rec.value
			cd.logger().Debug("switching record", "tag", rec.tag, "index", rec.seq, "id", rec.id, "value", rec.value)
		}
	}
	return t, nil
}

type lineReader struct {
	sc      *bufio.Scanner
	started bool
}

// next returns the next line, skipping blank and comment lines only before
// the first record.
func (lr *lineReader) next() (string, bool) {
	for lr.sc.Scan() {
		line := strings.TrimRight(lr.sc.Text(), "\r")
		if !lr.started {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			lr.started = true
		}
		return line, true
	}
	return "", false
}

type record struct {
	tag   string
	seq   int
	id    int
	value float64
}

// parseRecord tokenizes "<Tag> <seq>: ID=<id> <value>". Whitespace is free
// around every token, including either side of '=' and ':'.
func parseRecord(line string) (record, error) {
	var rec record

	head, tail, ok := strings.Cut(line, ":")
	if !ok {
		return rec, errors.New("missing ':'")
	}
	hf := strings.Fields(head)
	if len(hf) != 2 {
		return rec, fmt.Errorf("want 2 fields before ':', got %d", len(hf))
	}
	rec.tag = hf[0]
	seq, err := strconv.Atoi(hf[1])
	if err != nil || seq < 0 {
		return rec, fmt.Errorf("bad sequence index %q", hf[1])
	}
	rec.seq = seq

	rest, ok := strings.CutPrefix(strings.TrimSpace(tail), "ID")
	if !ok {
		return rec, errors.New("missing ID=")
	}
	rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), "=")
	if !ok {
		return rec, errors.New("missing ID=")
	}
	vf := strings.Fields(rest)
	if len(vf) != 2 {
		return rec, fmt.Errorf("want 2 fields after ID=, got %d", len(vf))
	}
	id, err := strconv.Atoi(vf[0])
	if err != nil {
		return rec, fmt.Errorf("bad identifier %q", vf[0])
	}
	rec.id = id
	v, err := strconv.ParseFloat(vf[1], 64)
	if err != nil {
		return rec, fmt.Errorf("bad value %q", vf[1])
	}
	rec.value = v
	return rec, nil
}

func (r record) check(tag string, index int, kind func(int) bool, seen []bool) error {
	switch {
	case r.tag != tag:
		return fmt.Errorf("want tag %s, got %s", tag, r.tag)
	case r.seq != index:
		return fmt.Errorf("want sequence index %d, got %d", index, r.seq)
	case r.id < 0 || r.id >= len(seen):
		return fmt.Errorf("identifier %d out of range [0, %d]", r.id, len(seen)-1)
	case !kind(r.id):
		return fmt.Errorf("identifier %d is not %s", r.id, kindName(tag))
	case seen[r.id]:
		return fmt.Errorf("identifier %d listed twice", r.id)
	case math.IsNaN(r.value) || r.value < 0 || r.value > Placeholder:
		return fmt.Errorf("value %v outside [0, 0.5]", r.value)
	}
	return nil
}

func kindName(tag string) string {
	if tag == tagInput {
		return "a circuit input"
	}
	return "an internal node"
}
