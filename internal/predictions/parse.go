package predictions

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// rowParser turns raw cell text into a Record. It is shared by the CSV and
// SQLite readers so both accept the same value forms.
type rowParser struct {
	source string
}

func (p rowParser) parse(line int, frame, active, x, y string) (Record, error) {
	n, err := parseFrame(frame)
	if err != nil {
		return Record{}, &DataFormatError{Source: p.source, Line: line, Reason: "bad frame number", Err: err}
	}
	on, err := parseActive(active)
	if err != nil {
		return Record{}, &DataFormatError{Source: p.source, Line: line, Reason: "bad active flag", Err: err}
	}
	px, okX, err := parseCoord(x)
	if err != nil {
		return Record{}, &DataFormatError{Source: p.source, Line: line, Reason: "bad x coordinate", Err: err}
	}
	py, okY, err := parseCoord(y)
	if err != nil {
		return Record{}, &DataFormatError{Source: p.source, Line: line, Reason: "bad y coordinate", Err: err}
	}

	r := Record{Frame: n, Active: on}
	if okX && okY {
		r.Position = image.Point{X: px, Y: py}
		r.HasPosition = true
	}
	return r, nil
}

func parseFrame(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// pandas writes integer columns holding NaN as floats ("12.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		if math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("out of range: %q", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative frame number %d", n)
	}
	return n, nil
}

func parseActive(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, fmt.Errorf("empty value")
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return false, fmt.Errorf("not a flag: %q", s)
	}
	return f != 0, nil
}

// parseCoord returns ok=false for an empty or NaN cell. Fractional values are
// truncated toward zero.
func parseCoord(s string) (v int, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false, fmt.Errorf("out of range: %q", s)
	}
	return int(math.Trunc(f)), true, nil
}
