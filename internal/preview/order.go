package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Order is the placement table used when a project has no App root.
// Names are matched case-insensitively against component names.
type Order struct {
	// Leading names are emitted first, in table order, at most once each.
	Leading []string `yaml:"leading"`
	// Trailing names are withheld and emitted last, in table order.
	Trailing []string `yaml:"trailing"`
}

// DefaultOrder puts navigation and hero sections first and closing
// sections last.
var DefaultOrder = Order{
	Leading:  []string{"Header", "Navbar", "Nav", "Hero", "Banner"},
	Trailing: []string{"Footer", "CTA", "Contact", "ContactForm"},
}

// LoadOrder reads an ordering table from a YAML file:
//
//	leading: [Header, Hero]
//	trailing: [Footer]
func LoadOrder(path string) (Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Order{}, fmt.Errorf("read order file: %w", err)
	}
	return ParseOrder(data)
}

// ParseOrder decodes a YAML ordering table. Unknown keys are rejected; an
// empty document yields an empty table.
func ParseOrder(data []byte) (Order, error) {
	var o Order
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Order{}, fmt.Errorf("parse order file: %w", err)
	}
	return o, nil
}

func (o Order) trailing(name string) bool { return matchAny(o.Trailing, name) }

func matchAny(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
