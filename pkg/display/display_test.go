package display

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		code int
		want Key
	}{
		{'q', KeyQuit},
		{'a', KeyPrev},
		{'d', KeyNext},
		{'s', KeyAccept},
		{'x', KeyUnknown},
		{'Q', KeyUnknown},
		{27, KeyUnknown},
		{-1, KeyNone},
		// modifier bits above the low byte are ignored
		{0x100000 | 'd', KeyNext},
	}

	for _, tt := range tests {
		if got := ParseKey(tt.code); got != tt.want {
			t.Errorf("ParseKey(%d): expected %v, got %v", tt.code, tt.want, got)
		}
	}
}

func TestKeyString(t *testing.T) {
	if KeyAccept.String() != "accept" {
		t.Errorf("Expected accept, got %s", KeyAccept)
	}
	if KeyNone.String() != "none" {
		t.Errorf("Expected none, got %s", KeyNone)
	}
	if Key(99).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", Key(99))
	}
}
