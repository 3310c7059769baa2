package abiarg

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	"github.com/x-xyz/rwat-deployer/domain"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func mustType(s string) abi.Type {
	t, err := abi.NewType(s, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

func (ts *testsuite) TestSplit() {
	ts.Equal([]string{"0xabc", "[1,2]", "name"}, Split("0xabc, [1,2] ,name"))
	ts.Equal([]string{"a"}, Split("a"))
	ts.Nil(Split("  "))
	ts.Equal([]string{"[[1,2],[3]]", "x"}, Split("[[1,2],[3]],x"))
}

func (ts *testsuite) TestValue() {
	cnr := "0x0cadb0d9e410072325d2acc00aab99eb795a8c86"
	tests := []struct {
		desc   string
		typ    string
		in     string
		exp    interface{}
		expErr error
	}{
		{"address", "address", cnr, common.HexToAddress(cnr), nil},
		{"bad address", "address", "0x12", nil, domain.ErrInvalidAddress},
		{"bool", "bool", "true", true, nil},
		{"bad bool", "bool", "yes", nil, domain.ErrBadParamInput},
		{"string", "string", "tokenName", "tokenName", nil},
		{"bytes", "bytes", "0x0102", []byte{1, 2}, nil},
		{"uint256 decimal", "uint256", "1000000000", big.NewInt(1000000000), nil},
		{"uint256 hex", "uint256", "0x10", big.NewInt(16), nil},
		{"uint256 leading zero is decimal", "uint256", "010", big.NewInt(10), nil},
		{"uint256 upper hex", "uint256", "0XfF", big.NewInt(255), nil},
		{"underscores", "uint256", "1_000", nil, domain.ErrBadParamInput},
		{"binary prefix", "uint256", "0b11", nil, domain.ErrBadParamInput},
		{"octal prefix", "uint256", "0o17", nil, domain.ErrBadParamInput},
		{"double sign", "int256", "--1", nil, domain.ErrBadParamInput},
		{"bare prefix", "uint256", "0x", nil, domain.ErrBadParamInput},
		{"negative hex", "int256", "-0x10", big.NewInt(-16), nil},
		{"uint8 native", "uint8", "255", uint8(255), nil},
		{"uint8 overflow", "uint8", "256", nil, domain.ErrBadParamInput},
		{"int64 native", "int64", "-5", int64(-5), nil},
		{"int8 overflow", "int8", "128", nil, domain.ErrBadParamInput},
		{"int8 min", "int8", "-128", int8(-128), nil},
		{"uint negative", "uint256", "-1", nil, domain.ErrBadParamInput},
		{"uint256 array", "uint256[]", "[1000000000,1000000001]", []*big.Int{big.NewInt(1000000000), big.NewInt(1000000001)}, nil},
		{"address array", "address[]", "[" + cnr + "]", []common.Address{common.HexToAddress(cnr)}, nil},
		{"empty array", "uint256[]", "[]", []*big.Int{}, nil},
		{"fixed array", "uint32[2]", "[1,2]", [2]uint32{1, 2}, nil},
		{"fixed array length", "uint32[2]", "[1]", nil, domain.ErrBadParamInput},
		{"not a list", "uint256[]", "1,2", nil, domain.ErrBadParamInput},
		{"nested array", "uint256[][]", "[[1]]", nil, domain.ErrUnsupportedAbiType},
	}
	for _, tt := range tests {
		v, err := Value(mustType(tt.typ), tt.in)
		if tt.expErr != nil {
			ts.ErrorIs(err, tt.expErr, tt.desc)
			continue
		}
		ts.NoError(err, tt.desc)
		ts.Equal(tt.exp, v, tt.desc)
	}
}

func (ts *testsuite) TestBytes32() {
	v, err := Value(mustType("bytes32"), "0xdf8b4c520ffe197c5343c6f5aec59570151ef9a492f2c624fd45ddde6135ec42")
	ts.NoError(err)
	b, ok := v.([32]byte)
	ts.True(ok)
	ts.Equal(common.HexToHash("0xdf8b4c520ffe197c5343c6f5aec59570151ef9a492f2c624fd45ddde6135ec42"), common.Hash(b))
}

func (ts *testsuite) TestParseInitializeArgs() {
	owner := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	cnr := "0x0cadb0d9e410072325d2acc00aab99eb795a8c86"
	inputs := baseabi.RWATABI.Methods["initialize"].Inputs

	args, err := Parse(inputs, Split(owner+",tokenName,tokenSymbol,"+cnr))
	ts.NoError(err)
	ts.Equal([]interface{}{common.HexToAddress(owner), "tokenName", "tokenSymbol", common.HexToAddress(cnr)}, args)

	_, err = baseabi.RWATABI.Pack("initialize", args...)
	ts.NoError(err)

	_, err = Parse(inputs, []string{owner})
	ts.ErrorIs(err, domain.ErrBadParamInput)
}
