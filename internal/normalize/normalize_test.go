package normalize

import "testing"

func TestStringLowercasesFoldsAndCollapses(t *testing.T) {
	got := String("  Ciego  de Ávila!! ")
	want := "ciego de avila"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestStringIsIdempotent(t *testing.T) {
	for _, s := range []string{"Москва", "New York, NY", "  multi   space  ", ""} {
		once := String(s)
		twice := String(once)
		if once != twice {
			t.Fatalf("String(%q) not idempotent: %q vs %q", s, once, twice)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Зорге 7к2")
	if len(got) != 2 || got[0] != "зорге" || got[1] != "7к2" {
		t.Fatalf("Tokens() = %v", got)
	}
	if got := Tokens(""); got != nil {
		t.Fatalf("Tokens(\"\") = %v, want nil", got)
	}
}

func TestIsASCIINumeric(t *testing.T) {
	cases := map[string]bool{
		"123": true,
		"":    false,
		"12a": false,
		"0":   true,
	}
	for in, want := range cases {
		if got := IsASCIINumeric(in); got != want {
			t.Fatalf("IsASCIINumeric(%q) = %v, want %v", in, got, want)
		}
	}
}
