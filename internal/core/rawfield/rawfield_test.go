package rawfield

import (
	"testing"
	"time"
)

func TestField_NullAndText(t *testing.T) {
	t.Parallel()

	if !Null().IsNull() {
		t.Fatal("Null().IsNull() = false, want true")
	}
	f := Text(" x ")
	if f.IsNull() {
		t.Fatal("Text().IsNull() = true, want false")
	}
	if f.String() != " x " {
		t.Fatalf("String() = %q, want %q", f.String(), " x ")
	}
	var zero Field
	if !zero.IsNull() {
		t.Fatal("zero Field should be null")
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Field
		want int64
		ok   bool
	}{
		{"plain", Text("5"), 5, true},
		{"negative", Text("-3"), -3, true},
		{"padded", Text("  12 "), 12, true},
		{"integral decimal", Text("5.0"), 5, true},
		{"fractional", Text("5.5"), 0, false},
		{"garbage", Text("five"), 0, false},
		{"blank", Text("   "), 0, false},
		{"null", Null(), 0, false},
		{"overflow", Text("99999999999999999999"), 0, false},
		{"exponent", Text("1e3"), 1000, true},
		{"exponent too wide", Text("1e19"), 0, false},
		{"huge exponent", Text("1e10000000"), 0, false},
		{"huge negative exponent", Text("-1e1000000000"), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseInt(tc.in)
			if got.OK != tc.ok || got.V != tc.want {
				t.Fatalf("ParseInt(%q) = (%d, %v), want (%d, %v)", tc.in.String(), got.V, got.OK, tc.want, tc.ok)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Field
		want string
		ok   bool
	}{
		{Text("2.00"), "2", true},
		{Text("0.85"), "0.85", true},
		{Text("-11062.06"), "-11062.06", true},
		{Text("1,5"), "", false},
		{Text("1.5e2"), "150", true},
		{Text("999999999999999999"), "999999999999999999", true},
		{Text("1e18"), "", false},
		{Text("1e10000000"), "", false},
		{Text("-1e400"), "", false},
		{Text("1e-10000000"), "", false},
		{Text("0e-10000000"), "", false},
		{Text("1e99999999999"), "", false},
		{Text(""), "", false},
		{Null(), "", false},
	}
	for _, tc := range tests {
		got := ParseDecimal(tc.in)
		if got.OK != tc.ok {
			t.Fatalf("ParseDecimal(%q).OK = %v, want %v", tc.in.String(), got.OK, tc.ok)
		}
		if tc.ok && got.V.String() != tc.want {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", tc.in.String(), got.V.String(), tc.want)
		}
	}
}

func TestParseDecimal_ExponentReturnsFast(t *testing.T) {
	t.Parallel()

	start := time.Now()
	for _, s := range []string{"1e2147483647", "1e-2147483648", "7E1000000", "0.5e-999999"} {
		if got := ParseDecimal(Text(s)); got.OK {
			t.Fatalf("ParseDecimal(%q) ok = true, want false", s)
		}
		if got := ParseInt(Text(s)); got.OK {
			t.Fatalf("ParseInt(%q) ok = true, want false", s)
		}
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("exponent casts took %v", d)
	}
}

func TestParseTime_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2021-01-01T00:00:00",
		"2021-01-01T00:00:00Z",
		"2021-01-01 00:00:00",
		"2021-01-01 00:00",
		"1/1/2021 0:00",
		"2021-01-01",
	} {
		got := ParseTime(Text(s))
		if !got.OK {
			t.Fatalf("ParseTime(%q) not ok", s)
		}
		if !got.V.Equal(want) {
			t.Fatalf("ParseTime(%q) = %v, want %v", s, got.V, want)
		}
		if got.V.Location() != time.UTC {
			t.Fatalf("ParseTime(%q) location = %v, want UTC", s, got.V.Location())
		}
	}

	for _, s := range []string{"yesterday", "2021-13-01", "", "01-01-2021"} {
		if got := ParseTime(Text(s)); got.OK {
			t.Fatalf("ParseTime(%q) ok = true, want false", s)
		}
	}
}

func TestParseText(t *testing.T) {
	t.Parallel()

	if got := ParseText(Text("  United Kingdom ")); !got.OK || got.V != "United Kingdom" {
		t.Fatalf("ParseText = (%q, %v), want (%q, true)", got.V, got.OK, "United Kingdom")
	}
	if got := ParseText(Text(" \t ")); got.OK {
		t.Fatal("ParseText blank ok = true, want false")
	}
	if got := ParseText(Null()); got.OK {
		t.Fatal("ParseText null ok = true, want false")
	}
}

func TestOpt_Ptr(t *testing.T) {
	t.Parallel()

	if p := None[int64]().Ptr(); p != nil {
		t.Fatalf("None.Ptr() = %v, want nil", *p)
	}
	o := Some[int64](7)
	p := o.Ptr()
	if p == nil || *p != 7 {
		t.Fatal("Some(7).Ptr() should point at 7")
	}
	*p = 9
	if o.V != 7 {
		t.Fatal("Ptr must not alias the Opt value")
	}
}
