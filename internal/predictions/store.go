// Package predictions holds the per-frame ball position table the overlay is
// drawn from. A Store is built once and is read-only afterwards.
package predictions

import "image"

// Record is one row of the prediction table. HasPosition is false when the row
// carried no coordinates.
type Record struct {
	Frame       int
	Active      bool
	Position    image.Point
	HasPosition bool
}

// Columns names the table columns holding each record field.
type Columns struct {
	Frame  string
	Active string
	X      string
	Y      string
}

func DefaultColumns() Columns {
	return Columns{
		Frame:  "frame",
		Active: "active",
		X:      "predicted_x",
		Y:      "predicted_y",
	}
}

type Store struct {
	records    map[int]Record
	active     map[int]struct{}
	duplicates int
}

// NewStore indexes records by frame number. The first record for a frame is
// kept; a frame is active if any of its records is.
func NewStore(records []Record) *Store {
	s := &Store{
		records: make(map[int]Record, len(records)),
		active:  make(map[int]struct{}),
	}
	for _, r := range records {
		if _, ok := s.records[r.Frame]; ok {
			s.duplicates++
		} else {
			s.records[r.Frame] = r
		}
		if r.Active {
			s.active[r.Frame] = struct{}{}
		}
	}
	return s
}

func (s *Store) IsActive(frame int) bool {
	_, ok := s.active[frame]
	return ok
}

// Lookup returns the predicted position for frame, if there is one.
func (s *Store) Lookup(frame int) (image.Point, bool) {
	r, ok := s.records[frame]
	if !ok || !r.HasPosition {
		return image.Point{}, false
	}
	return r.Position, true
}

func (s *Store) Record(frame int) (Record, bool) {
	r, ok := s.records[frame]
	return r, ok
}

func (s *Store) Len() int         { return len(s.records) }
func (s *Store) ActiveCount() int { return len(s.active) }
func (s *Store) Duplicates() int  { return s.duplicates }
