package wire

import (
	"regexp"
	"testing"
)

var identifierPattern = regexp.MustCompile(
	`^\{[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\}$`)

func TestGenerateMatchesCanonicalForm(t *testing.T) {
	id := Generate()
	s := id.String()
	if !identifierPattern.MatchString(s) {
		t.Fatalf("String() = %q does not match canonical form", s)
	}
}

func TestGenerateSetsVersionAndVariant(t *testing.T) {
	id := Generate()
	if id[7]&0xF0 != 0x40 {
		t.Fatalf("version nibble = %#x, want 0x4_", id[7]&0xF0)
	}
	if id[8]&0xC0 != 0x80 {
		t.Fatalf("variant bits = %#x, want 0b10______", id[8]&0xC0)
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		id := Generate()
		parsed, err := Parse(id.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", id.String(), err)
		}
		if parsed != id {
			t.Fatalf("round trip mismatch: %v != %v", parsed, id)
		}
	}
}

func TestParseAcceptsUnbracketedForm(t *testing.T) {
	id := Generate()
	s := id.String()
	unbracketed := s[1 : len(s)-1]
	parsed, err := Parse(unbracketed)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", unbracketed, err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %v != %v", parsed, id)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"{not-a-guid}",
		"12345678-1234-1234-1234", // too few groups
		"ZZZZZZZZ-1234-1234-1234-123456789012", // invalid hex
		"1234567-1234-1234-1234-123456789012", // wrong width
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", c)
		}
	}
}

func TestEmptyIsEmpty(t *testing.T) {
	var id Identifier
	if !id.IsEmpty() {
		t.Fatal("zero-value Identifier should be empty")
	}
	if Generate().IsEmpty() {
		t.Fatal("generated Identifier should not be empty")
	}
}

func TestCompareOrdersLexicographically(t *testing.T) {
	a := Identifier{0, 0, 0}
	b := Identifier{0, 0, 1}
	if a.Compare(b) >= 0 {
		t.Fatalf("Compare(a, b) = %d, want < 0", a.Compare(b))
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("Compare(b, a) = %d, want > 0", b.Compare(a))
	}
	if a.Compare(a) != 0 {
		t.Fatalf("Compare(a, a) = %d, want 0", a.Compare(a))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	id := Generate()
	out := NewOutputBuffer()
	if err := id.Encode(out); err != nil {
		t.Fatal(err)
	}
	in := NewInputBuffer(out.Release())
	var decoded Identifier
	if err := decoded.Decode(in); err != nil {
		t.Fatal(err)
	}
	if decoded != id {
		t.Fatalf("decoded %v != original %v", decoded, id)
	}
}
