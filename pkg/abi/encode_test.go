// Copyright © 2023 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package abi

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/kaleido-io/ethabi/pkg/ethtypes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBoolAndString(t *testing.T) {
	// a(bool,string) with (true, "hi") - one offset word per dynamic
	// field, body on the tail
	data, err := EncodeValues([]*Value{
		NewBoolValue(true),
		NewStringValue("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000040"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6869000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(data))
	assert.Len(t, data, 128)
}

func TestEncodeDynamicFixedArray(t *testing.T) {
	// A fixed length array of a dynamic type opens its own block, with
	// the element offsets measured from the block's own start
	data, err := EncodeValues([]*Value{
		NewFixedArrayValue(NewStringType(), NewStringValue("a"), NewStringValue("b")),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000040"+
			"0000000000000000000000000000000000000000000000000000000000000080"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"6100000000000000000000000000000000000000000000000000000000000000"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"6200000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(data))
}

func TestEncodeStaticFixedArray(t *testing.T) {
	// A fixed array of a static type flattens in place - no offsets, no
	// length prefix
	data, err := EncodeValues([]*Value{
		NewFixedArrayValue(NewUintType(256),
			NewUintValue(256, big.NewInt(3)),
			NewUintValue(256, big.NewInt(4)),
		),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000003"+
			"0000000000000000000000000000000000000000000000000000000000000004",
		hex.EncodeToString(data))
}

func TestEncodeDynamicTuple(t *testing.T) {
	// struct X { uint256 a; string b; } - dynamic because of the string,
	// so the tuple body is its own inner block
	tupleType := NewTupleType(
		&TupleField{Name: "a", Type: NewUintType(256)},
		&TupleField{Name: "b", Type: NewStringType()},
	)
	data, err := EncodeValues([]*Value{
		NewTupleValue(tupleType,
			NewUintValue(256, big.NewInt(1)),
			NewStringValue("hi"),
		),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000040"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6869000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(data))
}

func TestEncodeAddress(t *testing.T) {
	data, err := EncodeValues([]*Value{
		NewAddressValue(ethtypes.MustNewAddressFromString("0x03706Ff580119B130E7D26C5e816913123C24d89")),
	})
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000003706ff580119b130e7d26c5e816913123c24d89", hex.EncodeToString(data))
}

func TestEncodeEmptyArray(t *testing.T) {
	data, err := EncodeValues([]*Value{
		NewArrayValue(NewUintType(256)),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(data))
}

func TestEncodeZeroLengthFixedArray(t *testing.T) {
	data, err := EncodeValues([]*Value{
		NewFixedArrayValue(NewUintType(256)),
	})
	require.NoError(t, err)
	assert.Empty(t, data)

	// Static even over a dynamic element - no offset word is emitted
	data, err = EncodeValues([]*Value{
		NewFixedArrayValue(NewStringType()),
	})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestEncodeUnsignedBoundaries(t *testing.T) {
	data, err := EncodeValues([]*Value{NewUintValue(8, big.NewInt(255))})
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000000000000000000000000000000000000000000ff", hex.EncodeToString(data))

	_, err = EncodeValues([]*Value{NewUintValue(8, big.NewInt(256))})
	assert.Regexp(t, "FF26126", err)

	_, err = EncodeValues([]*Value{NewUintValue(8, big.NewInt(-1))})
	assert.Regexp(t, "FF26127", err)
}

func TestEncodeSignedBoundaries(t *testing.T) {
	data, err := EncodeValues([]*Value{NewIntValue(8, big.NewInt(-1))})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ff", 32), hex.EncodeToString(data))

	data, err = EncodeValues([]*Value{NewIntValue(8, big.NewInt(-128))})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ff", 31)+"80", hex.EncodeToString(data))

	_, err = EncodeValues([]*Value{NewIntValue(8, big.NewInt(128))})
	assert.Regexp(t, "FF26126", err)

	_, err = EncodeValues([]*Value{NewIntValue(8, big.NewInt(-129))})
	assert.Regexp(t, "FF26126", err)

	data, err = EncodeValues([]*Value{NewIntValue(8, big.NewInt(127))})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("00", 31)+"7f", hex.EncodeToString(data))
}

func TestEncodeFixedPoint(t *testing.T) {
	d, err := decimal.NewFromString("1.5")
	require.NoError(t, err)
	data, err := EncodeValues([]*Value{NewFixedValue(128, 18, d)})
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000000000000000000000000000014d1120d7b160000", hex.EncodeToString(data))

	// A value that does not scale to a whole number of 10^-N units
	// cannot be represented
	d, err = decimal.NewFromString("0.15")
	require.NoError(t, err)
	_, err = EncodeValues([]*Value{NewFixedValue(8, 1, d)})
	assert.Regexp(t, "FF26131", err)

	// Negative values are rejected for the unsigned variant
	d, err = decimal.NewFromString("-1")
	require.NoError(t, err)
	_, err = EncodeValues([]*Value{NewUfixedValue(128, 18, d)})
	assert.Regexp(t, "FF26127", err)
}

func TestEncodeFixedBytesWrongLength(t *testing.T) {
	v := NewFixedBytesValue([]byte{0x01, 0x02, 0x03})
	v.Type = NewFixedBytesType(4)
	_, err := EncodeValues([]*Value{v})
	assert.Regexp(t, "FF26128", err)

	// 33 bytes cannot be a fixed bytes value at all
	_, err = EncodeValues([]*Value{NewFixedBytesValue(make([]byte, 33))})
	assert.Regexp(t, "FF26128", err)
}

func TestEncodeAddressWrongLength(t *testing.T) {
	_, err := EncodeValues([]*Value{{Type: NewAddressType(), Bytes: []byte{0x01}}})
	assert.Regexp(t, "FF26128", err)
}

func TestEncodeFixedArrayWrongLength(t *testing.T) {
	_, err := EncodeValues([]*Value{{
		Type: NewFixedArrayType(NewUintType(256), 3),
		Children: []*Value{
			NewUintValue(256, big.NewInt(1)),
			NewUintValue(256, big.NewInt(2)),
		},
	}})
	assert.Regexp(t, "FF26129", err)
}

func TestEncodeTupleWrongArity(t *testing.T) {
	tupleType := NewTupleType(
		&TupleField{Name: "a", Type: NewUintType(256)},
		&TupleField{Name: "b", Type: NewBoolType()},
	)
	_, err := EncodeValues([]*Value{NewTupleValue(tupleType, NewUintValue(256, big.NewInt(1)))})
	assert.Regexp(t, "FF26130", err)
}

func TestEncodeElementTypeMismatch(t *testing.T) {
	_, err := EncodeValues([]*Value{
		NewArrayValue(NewUintType(256), NewStringValue("nope")),
	})
	assert.Regexp(t, "FF26125", err)

	tupleType := NewTupleType(&TupleField{Name: "a", Type: NewUintType(256)})
	_, err = EncodeValues([]*Value{NewTupleValue(tupleType, NewBoolValue(true))})
	assert.Regexp(t, "FF26125", err)
}

func TestEncodeMissingValueType(t *testing.T) {
	_, err := EncodeValues([]*Value{nil})
	assert.Regexp(t, "FF26132", err)

	_, err = EncodeValues([]*Value{{Int: big.NewInt(1)}})
	assert.Regexp(t, "FF26132", err)
}

func TestEncodeMissingIntegerPayload(t *testing.T) {
	_, err := EncodeValues([]*Value{{Type: NewUintType(256)}})
	assert.Regexp(t, "FF26125", err)

	_, err = EncodeValues([]*Value{{Type: NewIntType(256)}})
	assert.Regexp(t, "FF26125", err)
}

func TestEncodeBytesPadding(t *testing.T) {
	// 32 byte payload needs no padding beyond the length word
	data, err := EncodeValues([]*Value{NewBytesValue(make([]byte, 32))})
	require.NoError(t, err)
	assert.Len(t, data, 96)

	// 33 bytes rounds up to the next word
	data, err = EncodeValues([]*Value{NewBytesValue(make([]byte, 33))})
	require.NoError(t, err)
	assert.Len(t, data, 128)
}
