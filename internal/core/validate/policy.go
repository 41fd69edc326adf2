package validate

import (
	"io"
	"strings"

	perr "starforge/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// Default reasons for the retail line chain
const (
	ReasonQuantity  = "Invalid quantity (zero or negative)"
	ReasonPrice     = "Invalid price (zero or negative)"
	ReasonDate      = "Invalid invoice date"
	ReasonCancelled = "Cancelled order"

	ReasonQuantityRange = "Quantity out of range"
	ReasonPriceRange    = "Price out of range"
)

// Policy is the tunable part of the retail chain, loadable from yaml
//
//	voided_prefixes: ["C"]
//	collect_all: false
//	messages:
//	  quantity: "Invalid quantity (zero or negative)"
type Policy struct {
	VoidedPrefixes []string          `yaml:"voided_prefixes"`
	CollectAll     bool              `yaml:"collect_all"`
	Messages       map[string]string `yaml:"messages"`
}

// DefaultPolicy returns the built in policy
func DefaultPolicy() Policy {
	return Policy{VoidedPrefixes: []string{"C"}}
}

// LoadPolicy decodes a yaml policy over the defaults
func LoadPolicy(r io.Reader) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Policy{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "validate: decode policy")
	}
	for k := range p.Messages {
		switch k {
		case "quantity", "price", "date", "cancelled", "quantity_range", "price_range":
		default:
			return Policy{}, perr.Newf(perr.ErrorCodeInvalidArgument, "validate: unknown message key %q", k)
		}
	}
	return p, nil
}

// Mode returns the chain mode the policy asks for
func (p Policy) Mode() Mode {
	if p.CollectAll {
		return CollectAll
	}
	return FirstFailure
}

// Message returns the override for key or def
func (p Policy) Message(key, def string) string {
	if m := strings.TrimSpace(p.Messages[key]); m != "" {
		return m
	}
	return def
}

// IsVoided reports whether id starts with one of the voided prefixes
func (p Policy) IsVoided(id string) bool {
	id = strings.TrimSpace(id)
	for _, pre := range p.VoidedPrefixes {
		if pre != "" && strings.HasPrefix(id, pre) {
			return true
		}
	}
	return false
}
