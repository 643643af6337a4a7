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
	"context"
	"fmt"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
	"github.com/shopspring/decimal"
)

// EncodeValues serializes an ordered list of values into the ABI
// head/tail layout - static values in place in the head, dynamic values
// as a 32 byte offset in the head with the body appended to the tail.
// No function selector is prefixed.
func EncodeValues(values []*Value) ([]byte, error) {
	return EncodeValuesCtx(context.Background(), values)
}

func EncodeValuesCtx(ctx context.Context, values []*Value) ([]byte, error) {
	return encodeBlock(ctx, "", values)
}

// encodeBlock writes one head/tail block. Every dynamic container
// (variable array body, dynamic fixed array body, dynamic tuple body)
// is itself a block, with its offsets measured from the block's own
// start - the recursion through encodeValue handles that implicitly,
// because each nested block is assembled in isolation before being
// appended to this block's tail.
func encodeBlock(ctx context.Context, breadcrumbs string, values []*Value) ([]byte, error) {
	headSize := 0
	for i, v := range values {
		if v == nil || v.Type == nil {
			return nil, i18n.NewError(ctx, abimsgs.MsgValueMissingType, fmt.Sprintf("%s[%d]", breadcrumbs, i))
		}
		headSize += v.Type.headSize()
	}
	head := make([]byte, 0, headSize)
	var tail []byte
	for i, v := range values {
		desc := fmt.Sprintf("%s[%d]", breadcrumbs, i)
		data, err := encodeValue(ctx, desc, v)
		if err != nil {
			return nil, err
		}
		if v.Type.IsDynamic() {
			head = append(head, encodeLengthWord(headSize+len(tail))...)
			tail = append(tail, data...)
		} else {
			head = append(head, data...)
		}
	}
	return append(head, tail...), nil
}

// encodeValue produces the full encoding of a single value - the in-place
// head bytes for a static type, or the tail body for a dynamic one.
func encodeValue(ctx context.Context, desc string, v *Value) ([]byte, error) {
	t := v.Type
	switch t.Kind {
	case UintKind:
		if v.Int == nil {
			return nil, i18n.NewError(ctx, abimsgs.MsgWrongTypeValue, "non-integer", t, desc)
		}
		return encodeUnsignedInteger(ctx, desc, t, v.Int)
	case IntKind:
		if v.Int == nil {
			return nil, i18n.NewError(ctx, abimsgs.MsgWrongTypeValue, "non-integer", t, desc)
		}
		return encodeSignedInteger(ctx, desc, t, v.Int)
	case UfixedKind, FixedKind:
		return encodeFixedPoint(ctx, desc, t, v.Dec)
	case AddressKind:
		if len(v.Bytes) != 20 {
			return nil, i18n.NewError(ctx, abimsgs.MsgFixedBytesWrongLength, len(v.Bytes), t, 20, desc)
		}
		data := make([]byte, 32)
		copy(data[12:], v.Bytes)
		return data, nil
	case BoolKind:
		data := make([]byte, 32)
		if v.Bool {
			data[31] = 0x01
		}
		return data, nil
	case FixedBytesKind:
		if len(v.Bytes) != t.Size || t.Size < 1 || t.Size > 32 {
			return nil, i18n.NewError(ctx, abimsgs.MsgFixedBytesWrongLength, len(v.Bytes), t, t.Size, desc)
		}
		// Copied into the front of a 32 byte word, with trailing zeros
		data := make([]byte, 32)
		copy(data, v.Bytes)
		return data, nil
	case BytesKind:
		return encodeDynamicBytes(v.Bytes), nil
	case StringKind:
		// UTF-8 encoding is assumed of all input strings - no special handling
		return encodeDynamicBytes([]byte(v.Str)), nil
	case ArrayKind:
		if err := checkElementTypes(ctx, desc, t.Elem, v.Children); err != nil {
			return nil, err
		}
		body, err := encodeBlock(ctx, desc, v.Children)
		if err != nil {
			return nil, err
		}
		return append(encodeLengthWord(len(v.Children)), body...), nil
	case FixedArrayKind:
		if len(v.Children) != t.Size {
			return nil, i18n.NewError(ctx, abimsgs.MsgFixedArrayWrongLength, len(v.Children), t, t.Size, desc)
		}
		if err := checkElementTypes(ctx, desc, t.Elem, v.Children); err != nil {
			return nil, err
		}
		return encodeBlock(ctx, desc, v.Children)
	case TupleKind:
		if len(v.Children) != len(t.Fields) {
			return nil, i18n.NewError(ctx, abimsgs.MsgTupleWrongArity, len(v.Children), t, len(t.Fields), desc)
		}
		for i, f := range t.Fields {
			child := v.Children[i]
			if child == nil || child.Type == nil || child.Type.String() != f.Type.String() {
				return nil, i18n.NewError(ctx, abimsgs.MsgWrongTypeValue, childTypeDesc(child), f.Type, fmt.Sprintf("%s[%d]", desc, i))
			}
		}
		return encodeBlock(ctx, desc, v.Children)
	default:
		return nil, i18n.NewError(ctx, abimsgs.MsgWrongTypeValue, t.Kind, t, desc)
	}
}

func childTypeDesc(v *Value) string {
	if v == nil || v.Type == nil {
		return "untyped"
	}
	return v.Type.String()
}

// checkElementTypes verifies every member of an array value conforms to
// the declared element type before its encoding is interleaved
func checkElementTypes(ctx context.Context, desc string, elem *Type, children []*Value) error {
	want := elem.String()
	for i, child := range children {
		if child == nil || child.Type == nil || child.Type.String() != want {
			return i18n.NewError(ctx, abimsgs.MsgWrongTypeValue, childTypeDesc(child), elem, fmt.Sprintf("%s[%d]", desc, i))
		}
	}
	return nil
}

func encodeUnsignedInteger(ctx context.Context, desc string, t *Type, i *big.Int) ([]byte, error) {
	if i.Sign() < 0 {
		return nil, i18n.NewError(ctx, abimsgs.MsgNegativeUnsignedABI, desc)
	}
	if i.BitLen() > t.Bits {
		return nil, i18n.NewError(ctx, abimsgs.MsgNumberTooLargeABIEncode, t.Bits, desc)
	}
	data := make([]byte, 32)
	_ = i.FillBytes(data)
	return data, nil
}

func encodeSignedInteger(ctx context.Context, desc string, t *Type, i *big.Int) ([]byte, error) {
	if !checkSignedIntFits(i, t.Bits) {
		return nil, i18n.NewError(ctx, abimsgs.MsgNumberTooLargeABIEncode, t.Bits, desc)
	}
	return serializeTwosComplement256(i), nil
}

// encodeFixedPoint scales the decimal by 10^N and encodes the resulting
// integer. A value that does not scale to a whole number cannot be
// represented in the declared type.
func encodeFixedPoint(ctx context.Context, desc string, t *Type, d decimal.Decimal) ([]byte, error) {
	scaled := d.Shift(int32(t.Scale))
	if !scaled.IsInteger() {
		return nil, i18n.NewError(ctx, abimsgs.MsgFixedPointNotExact, t.Scale, desc)
	}
	i := scaled.BigInt()
	if t.Kind == UfixedKind {
		return encodeUnsignedInteger(ctx, desc, t, i)
	}
	return encodeSignedInteger(ctx, desc, t, i)
}

func encodeLengthWord(n int) []byte {
	data := make([]byte, 32)
	_ = big.NewInt(int64(n)).FillBytes(data)
	return data
}

// encodeDynamicBytes writes the 32 byte length prefix, the bytes, and
// trailing zeros to the next 32 byte boundary
func encodeDynamicBytes(value []byte) []byte {
	dataLen := 32 + // length is prefixed as uint256
		(len(value)/32)*32 // count of whole 32 byte chunks
	if (len(value) % 32) != 0 {
		dataLen += 32 // a final chunk for the remainder
	}
	data := make([]byte, dataLen)
	_ = big.NewInt(int64(len(value))).FillBytes(data[0:32])
	copy(data[32:], value)
	return data
}
