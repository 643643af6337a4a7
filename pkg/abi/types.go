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
	"fmt"
	"strings"
)

// TypeKind classifies an ABI type into one of the forms understood by
// the codec.
type TypeKind int

const (
	UintKind       TypeKind = iota // unsigned integer, 8 to 256 bits
	IntKind                        // signed (two's complement) integer, 8 to 256 bits
	FixedKind                      // signed fixed-point decimal
	UfixedKind                     // unsigned fixed-point decimal
	AddressKind                    // 20 byte account identifier
	BoolKind                       // true/false
	FixedBytesKind                 // bytes1 to bytes32
	BytesKind                      // variable length byte string
	StringKind                     // variable length UTF-8 string
	ArrayKind                      // variable length array
	FixedArrayKind                 // fixed length array
	TupleKind                      // ordered list of named fields
)

func (k TypeKind) String() string {
	switch k {
	case UintKind:
		return "uint"
	case IntKind:
		return "int"
	case FixedKind:
		return "fixed"
	case UfixedKind:
		return "ufixed"
	case AddressKind:
		return "address"
	case BoolKind:
		return "bool"
	case FixedBytesKind:
		return "fixedbytes"
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case FixedArrayKind:
		return "fixedarray"
	case TupleKind:
		return "tuple"
	default:
		return "unknown"
	}
}

// TupleField is a single named member of a tuple type. The name is
// metadata only - it does not contribute to the encoding, or to the
// canonical signature string.
type TupleField struct {
	Name string
	Type *Type
}

// Type is the parsed form of a single ABI type. It is a recursive tree:
// array types point at their element type, and tuple types carry an
// ordered field list.
//
// A Type is immutable once built (by one of the constructors, or by the
// type grammar parser), and can be shared freely between goroutines.
type Type struct {
	Kind   TypeKind
	Bits   int           // Uint/Int/Fixed/Ufixed: the declared bit width
	Scale  int           // Fixed/Ufixed: number of decimal digits (N)
	Size   int           // FixedBytes: byte length. FixedArray: element count
	Elem   *Type         // Array/FixedArray: the element type
	Fields []*TupleField // Tuple: the ordered members
}

func NewUintType(bits int) *Type {
	return &Type{Kind: UintKind, Bits: bits}
}

func NewIntType(bits int) *Type {
	return &Type{Kind: IntKind, Bits: bits}
}

func NewFixedType(bits, scale int) *Type {
	return &Type{Kind: FixedKind, Bits: bits, Scale: scale}
}

func NewUfixedType(bits, scale int) *Type {
	return &Type{Kind: UfixedKind, Bits: bits, Scale: scale}
}

func NewAddressType() *Type {
	return &Type{Kind: AddressKind}
}

func NewBoolType() *Type {
	return &Type{Kind: BoolKind}
}

func NewFixedBytesType(size int) *Type {
	return &Type{Kind: FixedBytesKind, Size: size}
}

func NewBytesType() *Type {
	return &Type{Kind: BytesKind}
}

func NewStringType() *Type {
	return &Type{Kind: StringKind}
}

func NewArrayType(elem *Type) *Type {
	return &Type{Kind: ArrayKind, Elem: elem}
}

func NewFixedArrayType(elem *Type, size int) *Type {
	return &Type{Kind: FixedArrayKind, Elem: elem, Size: size}
}

func NewTupleType(fields ...*TupleField) *Type {
	return &Type{Kind: TupleKind, Fields: fields}
}

// String returns the canonical signature form of the type. This is the
// string that is hashed (as part of the full signature) to derive
// function selectors and event topic ids, so tuples render as a
// parenthesized type list with the field names elided.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case UintKind:
		return fmt.Sprintf("uint%d", t.Bits)
	case IntKind:
		return fmt.Sprintf("int%d", t.Bits)
	case FixedKind:
		return fmt.Sprintf("fixed%dx%d", t.Bits, t.Scale)
	case UfixedKind:
		return fmt.Sprintf("ufixed%dx%d", t.Bits, t.Scale)
	case AddressKind:
		return "address"
	case BoolKind:
		return "bool"
	case FixedBytesKind:
		return fmt.Sprintf("bytes%d", t.Size)
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case ArrayKind:
		return t.Elem.String() + "[]"
	case FixedArrayKind:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Size)
	case TupleKind:
		buff := new(strings.Builder)
		buff.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				buff.WriteByte(',')
			}
			buff.WriteString(f.Type.String())
		}
		buff.WriteByte(')')
		return buff.String()
	default:
		return ""
	}
}

// IsDynamic determines whether the encoded length of the type depends on
// the value. Dynamic types occupy exactly one 32-byte offset word in the
// head of their containing block, with the body appended to the tail.
func (t *Type) IsDynamic() bool {
	switch t.Kind {
	case BytesKind, StringKind, ArrayKind:
		return true
	case FixedArrayKind:
		// A zero length fixed array encodes as empty bytes, so it is
		// static whatever its element type
		return t.Size > 0 && t.Elem.IsDynamic()
	case TupleKind:
		for _, f := range t.Fields {
			if f.Type.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// staticSize is the number of bytes a static type occupies in the head
// of its block. Fixed arrays and tuples flatten. Only meaningful for
// types where IsDynamic() is false.
func (t *Type) staticSize() int {
	switch t.Kind {
	case FixedArrayKind:
		return t.Size * t.Elem.staticSize()
	case TupleKind:
		size := 0
		for _, f := range t.Fields {
			size += f.Type.staticSize()
		}
		return size
	default:
		return 32
	}
}

// headSize is the number of bytes the type occupies in the head of its
// containing block - a single offset word for dynamic types, the full
// flattened encoding for static ones.
func (t *Type) headSize() int {
	if t.IsDynamic() {
		return 32
	}
	return t.staticSize()
}
