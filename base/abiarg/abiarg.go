// Package abiarg turns command line strings into the Go values
// go-ethereum's abi packer expects for a given argument list.
package abiarg

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/x-xyz/rwat-deployer/base/validator"
	"github.com/x-xyz/rwat-deployer/domain"
)

// Parse converts raw to values for inputs, positionally.
func Parse(inputs abi.Arguments, raw []string) ([]interface{}, error) {
	if len(inputs) != len(raw) {
		return nil, xerrors.Errorf("expected %d arguments, got %d: %w", len(inputs), len(raw), domain.ErrBadParamInput)
	}
	values := make([]interface{}, len(inputs))
	for i, in := range inputs {
		v, err := Value(in.Type, raw[i])
		if err != nil {
			return nil, xerrors.Errorf("argument %d (%s %s): %w", i, in.Type.String(), in.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// Split breaks a comma separated list while keeping bracketed arrays intact:
// `0xabc,[1,2],name` yields three items.
func Split(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// Value converts a single string to the Go representation of t.
func Value(t abi.Type, s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	switch t.T {
	case abi.AddressTy:
		if !validator.IsValidAddress(s) {
			return nil, xerrors.Errorf("%q: %w", s, domain.ErrInvalidAddress)
		}
		return common.HexToAddress(s), nil
	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, xerrors.Errorf("%q: %w", s, domain.ErrBadParamInput)
		}
		return b, nil
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, xerrors.Errorf("%q: %w", s, domain.ErrBadParamInput)
		}
		return b, nil
	case abi.FixedBytesTy:
		return fixedBytes(t, s)
	case abi.IntTy, abi.UintTy:
		return integer(t, s)
	case abi.SliceTy, abi.ArrayTy:
		return array(t, s)
	}
	return nil, xerrors.Errorf("%s: %w", t.String(), domain.ErrUnsupportedAbiType)
}

func fixedBytes(t abi.Type, s string) (interface{}, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, xerrors.Errorf("%q: %w", s, domain.ErrBadParamInput)
	}
	if len(b) > t.Size {
		return nil, xerrors.Errorf("%q longer than %d bytes: %w", s, t.Size, domain.ErrBadParamInput)
	}
	arr := reflect.New(t.GetType()).Elem()
	reflect.Copy(arr, reflect.ValueOf(b))
	return arr.Interface(), nil
}

// parseInt reads a decimal or 0x prefixed hex integer with an optional minus.
func parseInt(s string) (*big.Int, bool) {
	digits, neg := s, false
	if strings.HasPrefix(digits, "-") {
		digits, neg = digits[1:], true
	}
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}
	if digits == "" || strings.ContainsAny(digits[:1], "+-") {
		return nil, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}

func integer(t abi.Type, s string) (interface{}, error) {
	n, ok := parseInt(s)
	if !ok {
		return nil, xerrors.Errorf("%q: %w", s, domain.ErrBadParamInput)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, xerrors.Errorf("negative %q for %s: %w", s, t.String(), domain.ErrBadParamInput)
	}
	limit := t.Size
	if t.T == abi.IntTy {
		limit--
	}
	magnitude := n
	if n.Sign() < 0 {
		magnitude = new(big.Int).Sub(new(big.Int).Neg(n), domain.Big1)
	}
	if magnitude.BitLen() > limit {
		return nil, xerrors.Errorf("%q overflows %s: %w", s, t.String(), domain.ErrBadParamInput)
	}

	// go-ethereum packs 8..64 bit integers from native types only
	switch t.GetType().Kind() {
	case reflect.Uint8:
		return uint8(n.Uint64()), nil
	case reflect.Uint16:
		return uint16(n.Uint64()), nil
	case reflect.Uint32:
		return uint32(n.Uint64()), nil
	case reflect.Uint64:
		return n.Uint64(), nil
	case reflect.Int8:
		return int8(n.Int64()), nil
	case reflect.Int16:
		return int16(n.Int64()), nil
	case reflect.Int32:
		return int32(n.Int64()), nil
	case reflect.Int64:
		return n.Int64(), nil
	}
	return n, nil
}

func array(t abi.Type, s string) (interface{}, error) {
	if t.Elem.T == abi.SliceTy || t.Elem.T == abi.ArrayTy || t.Elem.T == abi.TupleTy {
		return nil, xerrors.Errorf("nested %s: %w", t.String(), domain.ErrUnsupportedAbiType)
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, xerrors.Errorf("%q is not a [a,b] list: %w", s, domain.ErrBadParamInput)
	}
	items := Split(s[1 : len(s)-1])
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, xerrors.Errorf("%s needs %d items, got %d: %w", t.String(), t.Size, len(items), domain.ErrBadParamInput)
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}
	for i, item := range items {
		v, err := Value(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}
