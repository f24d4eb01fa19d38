package assets

import (
	"errors"
	"math/big"
	"testing"
)

func TestPackKey_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		collection *big.Int
		token      *big.Int
	}{
		{name: "Small", collection: big.NewInt(3), token: big.NewInt(17)},
		{name: "ZeroToken", collection: big.NewInt(9), token: big.NewInt(0)},
		{name: "WideToken", collection: big.NewInt(1), token: new(big.Int).Lsh(big.NewInt(1), 127)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, tok := UnpackKey(PackKey(tt.collection, tt.token))
			if col.Cmp(tt.collection) != 0 || tok.Cmp(tt.token) != 0 {
				t.Errorf("UnpackKey(PackKey(%v, %v)) = (%v, %v)", tt.collection, tt.token, col, tok)
			}
		})
	}
}

func TestPackKey_CollectionInHighBits(t *testing.T) {
	a := KeyOf(1, 5)
	b := KeyOf(2, 5)
	if a == b {
		t.Fatal("keys for different collections collide")
	}
	if b.Big().Cmp(a.Big()) <= 0 {
		t.Errorf("collection 2 key %s should sort above collection 1 key %s", b.Hex(), a.Hex())
	}
}

func TestParseKey(t *testing.T) {
	want := KeyOf(12, 345)

	got, err := ParseKey("12:345")
	if err != nil || got != want {
		t.Errorf("ParseKey(\"12:345\") = %v, %v; want %v", got, err, want)
	}

	got, err = ParseKey(want.Hex())
	if err != nil || got != want {
		t.Errorf("ParseKey(hex) = %v, %v; want %v", got, err, want)
	}

	if _, err := ParseKey("not-a-key"); err == nil {
		t.Error("ParseKey(\"not-a-key\") should fail")
	}
	if FormatKey(want) != "12:345" {
		t.Errorf("FormatKey() = %q, want %q", FormatKey(want), "12:345")
	}
}

func TestParseKey_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NegativeCollection", input: "-1:5"},
		{name: "NegativeToken", input: "1:-5"},
		{name: "PlusSign", input: "+1:5"},
		{name: "TrailingJunk", input: "1:5abc"},
		{name: "MissingToken", input: "7:"},
		{name: "ExtraSeparator", input: "1:2:3"},
		{name: "TokenTooWide", input: "1:340282366920938463463374607431768211456"},
		{name: "ShortHex", input: "0x1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := ParseKey(tt.input); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ParseKey(%q) = %v, %v; want ErrInvalidKey", tt.input, got, err)
			}
		})
	}

	// The widest token id still parses.
	if _, err := ParseKey("1:340282366920938463463374607431768211455"); err != nil {
		t.Errorf("ParseKey(max token) error = %v", err)
	}
}
