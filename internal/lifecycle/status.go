// Package lifecycle models the fixed project status pipeline.
//
// A project moves Initiated -> In Progress -> Review -> Completed -> Delivered,
// one step at a time. Delivered is terminal.
package lifecycle

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type Status uint8

const (
	Initiated Status = iota
	InProgress
	Review
	Completed
	Delivered
)

var (
	ErrTerminal      = errors.New("lifecycle: status is terminal")
	ErrUnknownStatus = errors.New("lifecycle: unknown status")
)

var stages = [...]struct {
	name       string
	percentage int
}{
	Initiated:  {"Initiated", 0},
	InProgress: {"In Progress", 25},
	Review:     {"Review", 50},
	Completed:  {"Completed", 75},
	Delivered:  {"Delivered", 100},
}

// All returns every status in pipeline order.
func All() []Status {
	out := make([]Status, len(stages))
	for i := range stages {
		out[i] = Status(i)
	}
	return out
}

func (s Status) Valid() bool { return int(s) < len(stages) }

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
	return stages[s].name
}

// Percentage is the completion percentage reported for s.
func (s Status) Percentage() int {
	if !s.Valid() {
		return 0
	}
	return stages[s].percentage
}

func (s Status) Terminal() bool { return s == Delivered }

// Next returns the single status that follows s.
func (s Status) Next() (Status, error) {
	if !s.Valid() {
		return s, ErrUnknownStatus
	}
	if s.Terminal() {
		return s, ErrTerminal
	}
	return s + 1, nil
}

func Parse(name string) (Status, error) {
	for i, st := range stages {
		if st.name == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrUnknownStatus
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status by name so the column stays readable.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, ErrUnknownStatus
	}
	return s.String(), nil
}

func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("lifecycle: cannot scan %T into Status", src)
	}
}
