package radiance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// GlareKey is the header variable the glare value is stored under.
const GlareKey = "EVALGLARE="

const maxHeaderBytes = 1 << 16

// A Header is the text block at the top of a Radiance picture file: one
// line per entry, ending at the first blank line.
type Header struct {
	Lines []string
}

// Value returns the value of the first "KEY=value" line, where key
// includes the trailing '='.
func (h Header) Value(key string) (string, bool) {
	for _, line := range h.Lines {
		line = strings.TrimLeft(line, " \t")
		if v, found := strings.CutPrefix(line, key); found {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (h Header) String() string { return strings.Join(h.Lines, "\n") }

// ParseHeader reads the header from r, leaving r positioned at the
// resolution line.
func ParseHeader(r *bufio.Reader) (Header, error) {
	h := Header{}
	n := 0
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF && line == "" {
			return h, fmt.Errorf("header not terminated")
		} else if err != nil && err != io.EOF {
			return h, err
		}

		n += len(line)
		if n > maxHeaderBytes {
			return h, fmt.Errorf("header longer than %d bytes", maxHeaderBytes)
		}
		line = strings.TrimRight(line, "\r\n")

		if len(h.Lines) == 0 {
			if !strings.HasPrefix(line, "#?") {
				return h, fmt.Errorf("not a radiance file, first line %q", line)
			}
		} else if line == "" {
			return h, nil
		}
		h.Lines = append(h.Lines, line)
	}
}

// ReadHeader returns the header of the named HDR file.
func ReadHeader(filename string) (Header, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Header{}, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	h, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return h, fmt.Errorf("header '%s': %v", filename, err)
	}
	return h, nil
}

// ReadHeaderValue looks up one key (e.g. GlareKey) in a file's header.
func ReadHeaderValue(filename, key string) (string, error) {
	h, err := ReadHeader(filename)
	if err != nil {
		return "", err
	}
	v, ok := h.Value(key)
	if !ok {
		return "", fmt.Errorf("header '%s': no %s entry", filename, key)
	}
	return v, nil
}
