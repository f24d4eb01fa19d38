package assets

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Key is the packed (collection, token) identifier used as the primary key for all
// per-asset state. The collection id occupies the high bits, the token id the low 128 bits.
type Key = common.Hash

var ErrInvalidKey = errors.New("invalid asset key")

var tokenMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// PackKey combines a collection id and a token id. Token ids wider than 128 bits are truncated.
func PackKey(collectionID, tokenID *big.Int) Key {
	packed := new(big.Int).Lsh(new(big.Int).Set(collectionID), 128)
	packed.Or(packed, new(big.Int).And(tokenID, tokenMask))
	return common.BigToHash(packed)
}

// KeyOf is PackKey for the common case of small numeric ids.
func KeyOf(collectionID, tokenID uint64) Key {
	return PackKey(new(big.Int).SetUint64(collectionID), new(big.Int).SetUint64(tokenID))
}

// UnpackKey splits a key back into its collection and token ids.
func UnpackKey(k Key) (collectionID, tokenID *big.Int) {
	v := k.Big()
	return new(big.Int).Rsh(v, 128), new(big.Int).And(v, tokenMask)
}

// ParseKey accepts either a 0x-prefixed 32-byte hex key or "collection:token" with
// unsigned decimal ids of at most 128 bits each.
func ParseKey(s string) (Key, error) {
	if col, tok, ok := strings.Cut(s, ":"); ok {
		c, okCol := parseID(col)
		t, okTok := parseID(tok)
		if okCol && okTok {
			return PackKey(c, t), nil
		}
		return Key{}, fmt.Errorf("%w %q", ErrInvalidKey, s)
	}
	if len(s) == 66 && s[:2] == "0x" {
		if b, err := hexutil.Decode(s); err == nil && len(b) == common.HashLength {
			return common.BytesToHash(b), nil
		}
	}
	return Key{}, fmt.Errorf("%w %q", ErrInvalidKey, s)
}

func parseID(s string) (*big.Int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 128 {
		return nil, false
	}
	return v, true
}

// FormatKey renders a key as "collection:token".
func FormatKey(k Key) string {
	col, tok := UnpackKey(k)
	return col.String() + ":" + tok.String()
}
