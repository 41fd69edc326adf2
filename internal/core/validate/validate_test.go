package validate

import (
	"reflect"
	"strings"
	"testing"

	perr "starforge/internal/platform/errors"
)

type row struct {
	qty   int
	price int
}

func chain(mode Mode) Chain[row] {
	return NewChain(mode,
		Rule[row]{Name: "qty", Reason: "bad qty", Fails: func(r row) bool { return r.qty <= 0 }},
		Rule[row]{Name: "nil", Reason: "never"},
		Rule[row]{Name: "price", Reason: "bad price", Fails: func(r row) bool { return r.price <= 0 }},
	)
}

func TestChain_FirstFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     row
		valid  bool
		issues []string
	}{
		{"valid", row{1, 1}, true, nil},
		{"qty only", row{0, 1}, false, []string{"bad qty"}},
		{"price only", row{1, -1}, false, []string{"bad price"}},
		{"both reports first", row{-1, -1}, false, []string{"bad qty"}},
	}
	c := chain(FirstFailure)
	for _, tc := range tests {
		valid, issues := c.Evaluate(tc.in)
		if valid != tc.valid || !reflect.DeepEqual(issues, tc.issues) {
			t.Fatalf("%s: Evaluate = (%v, %v), want (%v, %v)", tc.name, valid, issues, tc.valid, tc.issues)
		}
		// valid XOR issues present
		if valid == (issues != nil) {
			t.Fatalf("%s: valid=%v with issues=%v breaks the partition", tc.name, valid, issues)
		}
	}
}

func TestChain_CollectAll(t *testing.T) {
	t.Parallel()

	c := chain(CollectAll)
	valid, issues := c.Evaluate(row{-1, -1})
	if valid {
		t.Fatal("valid = true, want false")
	}
	want := []string{"bad qty", "bad price"}
	if !reflect.DeepEqual(issues, want) {
		t.Fatalf("issues = %v, want %v", issues, want)
	}
	if c.Mode().String() != "collect_all" {
		t.Fatalf("Mode = %s, want collect_all", c.Mode())
	}
}

func TestChain_DropsNilPredicates(t *testing.T) {
	t.Parallel()

	rs := chain(FirstFailure).Rules()
	if len(rs) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(rs))
	}
	if rs[0].Name != "qty" || rs[1].Name != "price" {
		t.Fatalf("rule order = %s,%s, want qty,price", rs[0].Name, rs[1].Name)
	}
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	p, err := LoadPolicy(strings.NewReader(`
voided_prefixes: ["C", "X"]
collect_all: true
messages:
  cancelled: "Voided invoice"
  price_range: "Price too high"
`))
	if err != nil {
		t.Fatalf("LoadPolicy error: %v", err)
	}
	if p.Mode() != CollectAll {
		t.Fatalf("Mode = %v, want CollectAll", p.Mode())
	}
	if !p.IsVoided("X100") || !p.IsVoided(" C5") || p.IsVoided("536365") {
		t.Fatal("IsVoided mismatch for configured prefixes")
	}
	if got := p.Message("cancelled", ReasonCancelled); got != "Voided invoice" {
		t.Fatalf("Message(cancelled) = %q, want %q", got, "Voided invoice")
	}
	if got := p.Message("price_range", ReasonPriceRange); got != "Price too high" {
		t.Fatalf("Message(price_range) = %q, want %q", got, "Price too high")
	}
	if got := p.Message("quantity", ReasonQuantity); got != ReasonQuantity {
		t.Fatalf("Message(quantity) = %q, want default", got)
	}
}

func TestLoadPolicy_EmptyKeepsDefaults(t *testing.T) {
	t.Parallel()

	p, err := LoadPolicy(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadPolicy error: %v", err)
	}
	if !reflect.DeepEqual(p.VoidedPrefixes, []string{"C"}) {
		t.Fatalf("VoidedPrefixes = %v, want [C]", p.VoidedPrefixes)
	}
	if p.Mode() != FirstFailure {
		t.Fatal("default mode should be FirstFailure")
	}
}

func TestLoadPolicy_Rejects(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"unknown_key: 1\n",
		"messages:\n  colour: red\n",
		"voided_prefixes: {a: b}\n",
	} {
		_, err := LoadPolicy(strings.NewReader(doc))
		if err == nil {
			t.Fatalf("LoadPolicy(%q) error = nil, want error", doc)
		}
		if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Fatalf("LoadPolicy(%q) code = %v, want InvalidArgument", doc, perr.CodeOf(err))
		}
	}
}
