package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidMTL is returned for malformed material libraries.
var ErrInvalidMTL = errors.New("invalid MTL data")

// MTLMaterial holds the Phong terms of one newmtl block.
type MTLMaterial struct {
	Name       string
	Ambient    [3]float32 // Ka
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Shininess  float32    // Ns
	Opacity    float32    // d, or 1 - Tr
	DiffuseMap string     // map_Kd
}

// DefaultMTLMaterial returns the values used for fields a block omits.
func DefaultMTLMaterial(name string) *MTLMaterial {
	return &MTLMaterial{
		Name:      name,
		Ambient:   [3]float32{0.2, 0.2, 0.2},
		Diffuse:   [3]float32{0.8, 0.8, 0.8},
		Shininess: 1,
		Opacity:   1,
	}
}

// MTL is a parsed material library.
type MTL struct {
	Materials map[string]*MTLMaterial
	Order     []string
}

// ParseMTL parses MTL data.
func ParseMTL(data []byte) (*MTL, error) {
	lib := &MTL{Materials: make(map[string]*MTLMaterial)}
	var cur *MTLMaterial

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "newmtl" {
			name := strings.Join(fields[1:], " ")
			cur = DefaultMTLMaterial(name)
			if _, dup := lib.Materials[name]; !dup {
				lib.Order = append(lib.Order, name)
			}
			lib.Materials[name] = cur
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch fields[0] {
		case "Ka":
			cur.Ambient, err = parseColor(fields[1:])
		case "Kd":
			cur.Diffuse, err = parseColor(fields[1:])
		case "Ks":
			cur.Specular, err = parseColor(fields[1:])
		case "Ns":
			cur.Shininess, err = parseScalar(fields[1:])
		case "d":
			cur.Opacity, err = parseScalar(fields[1:])
		case "Tr":
			var tr float32
			tr, err = parseScalar(fields[1:])
			cur.Opacity = 1 - tr
		case "map_Kd":
			// Options such as "-s 1 1 1" precede the file name.
			if len(fields) < 2 {
				err = fmt.Errorf("%w: map_Kd without file", ErrInvalidMTL)
			} else {
				cur.DiffuseMap = fields[len(fields)-1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMTL, err)
	}
	return lib, nil
}

// ParseMTLFile reads and parses an MTL file.
func ParseMTLFile(path string) (*MTL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data)
}

func parseColor(fields []string) ([3]float32, error) {
	var c [3]float32
	if len(fields) == 0 {
		return c, fmt.Errorf("%w: missing color", ErrInvalidMTL)
	}
	for i := 0; i < 3; i++ {
		// A single value applies to all three channels.
		s := fields[0]
		if i < len(fields) {
			s = fields[i]
		}
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return c, fmt.Errorf("%w: %q", ErrInvalidMTL, s)
		}
		c[i] = float32(f)
	}
	return c, nil
}

func parseScalar(fields []string) (float32, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: missing value", ErrInvalidMTL)
	}
	f, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMTL, fields[0])
	}
	return float32(f), nil
}
