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
	"math/big"

	"github.com/kaleido-io/ethabi/pkg/ethtypes"
	"github.com/shopspring/decimal"
)

// Value pairs an ABI type with a concrete payload for it. Each value
// carries its full defining Type, which is what makes re-encoding
// lossless - an empty array still knows its element type, an integer
// still knows its declared width, and a fixed array still knows its
// declared length.
//
// Only the payload fields relevant to Type.Kind are set:
//
//   - Int for Uint/Int
//   - Dec for Fixed/Ufixed
//   - Bytes for Address (20 bytes), FixedBytes and Bytes
//   - Str for String
//   - Bool for Bool
//   - Children for Array, FixedArray and Tuple (tuple field names are
//     carried by the Type)
type Value struct {
	Type     *Type
	Int      *big.Int
	Dec      decimal.Decimal
	Bytes    []byte
	Str      string
	Bool     bool
	Children []*Value
}

func NewUintValue(bits int, i *big.Int) *Value {
	return &Value{Type: NewUintType(bits), Int: i}
}

func NewIntValue(bits int, i *big.Int) *Value {
	return &Value{Type: NewIntType(bits), Int: i}
}

func NewFixedValue(bits, scale int, d decimal.Decimal) *Value {
	return &Value{Type: NewFixedType(bits, scale), Dec: d}
}

func NewUfixedValue(bits, scale int, d decimal.Decimal) *Value {
	return &Value{Type: NewUfixedType(bits, scale), Dec: d}
}

func NewAddressValue(a *ethtypes.Address) *Value {
	b := make([]byte, 20)
	copy(b, a[:])
	return &Value{Type: NewAddressType(), Bytes: b}
}

func NewBoolValue(v bool) *Value {
	return &Value{Type: NewBoolType(), Bool: v}
}

// NewFixedBytesValue builds a bytes<N> value, taking the size from the
// supplied slice (which must be 1 to 32 bytes for the value to encode)
func NewFixedBytesValue(b []byte) *Value {
	c := make([]byte, len(b))
	copy(c, b)
	return &Value{Type: NewFixedBytesType(len(b)), Bytes: c}
}

func NewBytesValue(b []byte) *Value {
	c := make([]byte, len(b))
	copy(c, b)
	return &Value{Type: NewBytesType(), Bytes: c}
}

func NewStringValue(s string) *Value {
	return &Value{Type: NewStringType(), Str: s}
}

// NewArrayValue builds a variable length array value. The element type
// must be supplied explicitly, so that an empty array re-encodes to the
// same bytes it decoded from.
func NewArrayValue(elem *Type, children ...*Value) *Value {
	return &Value{Type: NewArrayType(elem), Children: children}
}

// NewFixedArrayValue builds a fixed length array value, taking the
// declared length from the number of children supplied.
func NewFixedArrayValue(elem *Type, children ...*Value) *Value {
	return &Value{Type: NewFixedArrayType(elem, len(children)), Children: children}
}

// NewTupleValue builds a tuple value against an externally constructed
// tuple type - the type carries the field names and types, the children
// carry the member values in field order.
func NewTupleValue(tupleType *Type, children ...*Value) *Value {
	return &Value{Type: tupleType, Children: children}
}
