// Package location names the four places in an HTML document where an
// analytics provider may inject its initialization script, and gates rendering
// on them.
package location

import (
	"errors"
	"fmt"
)

// Location is a page insertion point.
type Location string

// Insertion points in document order.
const (
	HeadPrepend Location = "head_prepend" // Right after the opening <head> tag.
	HeadAppend  Location = "head_append"  // Right before </head>.
	BodyPrepend Location = "body_prepend" // Right after the opening <body> tag.
	BodyAppend  Location = "body_append"  // Right before </body>.
)

// All lists every insertion point in document order.
var All = []Location{HeadPrepend, HeadAppend, BodyPrepend, BodyAppend}

// ErrUnknownLocation is returned when a string does not name an insertion point.
var ErrUnknownLocation = errors.New("location: unknown insertion point")

// String returns the location name.
func (l Location) String() string { return string(l) }

// Valid reports whether l is one of the four insertion points.
func (l Location) Valid() bool {
	for _, v := range All {
		if l == v {
			return true
		}
	}

	return false
}

// Parse converts a name such as "head_append" into a Location.
func Parse(s string) (Location, error) {
	l := Location(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, s)
	}

	return l, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so locations can be read
// from YAML and flag values.
func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

// Gate calls render only when requested matches configured exactly. Any other
// location yields the empty string; that is normal output, not a failure.
func Gate(configured, requested Location, render func() string) string {
	if configured != requested {
		return ""
	}

	return render()
}
