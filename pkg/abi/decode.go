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

// DecodeLimits bounds the work the decoder will perform for a single
// payload, so that a crafted offset graph cannot force quadratic or
// exponential decoding work.
type DecodeLimits struct {
	MaxDepth       int // maximum nesting of dynamic/composite containers
	MaxArrayLength int // maximum declared element count for any one dynamic array
}

// DefaultDecodeLimits are used by DecodeValues and all the schema level
// decode entry points.
var DefaultDecodeLimits = &DecodeLimits{
	MaxDepth:       32,
	MaxArrayLength: 1 << 20,
}

// DecodeValues parses ABI encoded bytes against an ordered type list,
// producing one value per type.
func DecodeValues(types []*Type, data []byte) ([]*Value, error) {
	return DecodeValuesCtx(context.Background(), types, data)
}

func DecodeValuesCtx(ctx context.Context, types []*Type, data []byte) ([]*Value, error) {
	return DecodeValuesWithLimitsCtx(ctx, types, data, DefaultDecodeLimits)
}

func DecodeValuesWithLimitsCtx(ctx context.Context, types []*Type, data []byte, limits *DecodeLimits) ([]*Value, error) {
	return decodeBlock(ctx, "", types, data, 0, 0, limits)
}

// decodeBlock walks the head of one head/tail block, which starts at
// base within the overall payload. Offsets read from the head are
// relative to base.
func decodeBlock(ctx context.Context, breadcrumbs string, types []*Type, block []byte, base, depth int, limits *DecodeLimits) ([]*Value, error) {
	values := make([]*Value, len(types))
	pos := base
	for i, t := range types {
		v, headBytes, err := decodeValue(ctx, fmt.Sprintf("%s[%d]", breadcrumbs, i), t, block, base, pos, depth, limits)
		if err != nil {
			return nil, err
		}
		values[i] = v
		pos += headBytes
	}
	return values, nil
}

// decodeValue consumes one type's head entry, returning the number of
// head bytes read. Dynamic types consume a single 32 byte offset word
// and recurse into the body at base+offset; static composites flatten
// in place.
func decodeValue(ctx context.Context, desc string, t *Type, block []byte, base, pos, depth int, limits *DecodeLimits) (*Value, int, error) {
	if depth > limits.MaxDepth {
		return nil, -1, i18n.NewError(ctx, abimsgs.MsgMaxDepthExceeded, limits.MaxDepth, desc)
	}

	if t.IsDynamic() {
		offset, err := decodeLengthWord(ctx, desc, block, pos)
		if err != nil {
			return nil, -1, err
		}
		dataOffset := base + offset
		if dataOffset > len(block) {
			return nil, -1, i18n.NewError(ctx, abimsgs.MsgABIOffsetOutOfRange, dataOffset, desc, len(block))
		}
		v, err := decodeDynamicBody(ctx, desc, t, block, dataOffset, depth+1, limits)
		if err != nil {
			return nil, -1, err
		}
		return v, 32, nil
	}

	switch t.Kind {
	case FixedArrayKind:
		children := make([]*Value, t.Size)
		headBytes := 0
		for i := 0; i < t.Size; i++ {
			child, childHeadBytes, err := decodeValue(ctx, fmt.Sprintf("%s[%d]", desc, i), t.Elem, block, base, pos+headBytes, depth+1, limits)
			if err != nil {
				return nil, -1, err
			}
			children[i] = child
			headBytes += childHeadBytes
		}
		return &Value{Type: t, Children: children}, headBytes, nil
	case TupleKind:
		children := make([]*Value, len(t.Fields))
		headBytes := 0
		for i, f := range t.Fields {
			child, childHeadBytes, err := decodeValue(ctx, fmt.Sprintf("%s.%s", desc, f.Name), f.Type, block, base, pos+headBytes, depth+1, limits)
			if err != nil {
				return nil, -1, err
			}
			children[i] = child
			headBytes += childHeadBytes
		}
		return &Value{Type: t, Children: children}, headBytes, nil
	default:
		v, err := decodeElementaryWord(ctx, desc, t, block, pos)
		if err != nil {
			return nil, -1, err
		}
		return v, 32, nil
	}
}

// decodeDynamicBody parses the tail body of a dynamic type, at its
// absolute offset within the payload. Variable arrays, dynamic fixed
// arrays and dynamic tuples each open a new block, so nested offsets
// are measured from the body's own start.
func decodeDynamicBody(ctx context.Context, desc string, t *Type, block []byte, offset, depth int, limits *DecodeLimits) (*Value, error) {
	switch t.Kind {
	case BytesKind, StringKind:
		byteLength, err := decodeLengthWord(ctx, desc, block, offset)
		if err != nil {
			return nil, err
		}
		dataStart := offset + 32
		if dataStart+byteLength > len(block) {
			return nil, i18n.NewError(ctx, abimsgs.MsgNotEnoughBytesABIValue, t, desc)
		}
		b := make([]byte, byteLength)
		copy(b, block[dataStart:dataStart+byteLength])
		if t.Kind == StringKind {
			return &Value{Type: t, Str: string(b)}, nil
		}
		return &Value{Type: t, Bytes: b}, nil
	case ArrayKind:
		count, err := decodeLengthWord(ctx, desc, block, offset)
		if err != nil {
			return nil, err
		}
		if count > limits.MaxArrayLength {
			return nil, i18n.NewError(ctx, abimsgs.MsgABIArrayCountTooLarge, fmt.Sprintf("%d", count), desc, limits.MaxArrayLength)
		}
		elemBase := offset + 32
		children := make([]*Value, count)
		pos := elemBase
		for i := 0; i < count; i++ {
			child, childHeadBytes, err := decodeValue(ctx, fmt.Sprintf("%s[%d]", desc, i), t.Elem, block, elemBase, pos, depth, limits)
			if err != nil {
				return nil, err
			}
			children[i] = child
			pos += childHeadBytes
		}
		return &Value{Type: t, Children: children}, nil
	case FixedArrayKind:
		// A fixed length array of a dynamic type is a block with no
		// length prefix
		children := make([]*Value, t.Size)
		pos := offset
		for i := 0; i < t.Size; i++ {
			child, childHeadBytes, err := decodeValue(ctx, fmt.Sprintf("%s[%d]", desc, i), t.Elem, block, offset, pos, depth, limits)
			if err != nil {
				return nil, err
			}
			children[i] = child
			pos += childHeadBytes
		}
		return &Value{Type: t, Children: children}, nil
	case TupleKind:
		children := make([]*Value, len(t.Fields))
		pos := offset
		for i, f := range t.Fields {
			child, childHeadBytes, err := decodeValue(ctx, fmt.Sprintf("%s.%s", desc, f.Name), f.Type, block, offset, pos, depth, limits)
			if err != nil {
				return nil, err
			}
			children[i] = child
			pos += childHeadBytes
		}
		return &Value{Type: t, Children: children}, nil
	default:
		return nil, i18n.NewError(ctx, abimsgs.MsgNotEnoughBytesABIValue, t, desc)
	}
}

// decodeElementaryWord reads the single 32 byte word of a static
// elementary value.
func decodeElementaryWord(ctx context.Context, desc string, t *Type, block []byte, pos int) (*Value, error) {
	if pos+32 > len(block) {
		return nil, i18n.NewError(ctx, abimsgs.MsgNotEnoughBytesABIValue, t, desc)
	}
	word := block[pos : pos+32]
	switch t.Kind {
	case UintKind:
		// Tolerant decode - the upper (256-bits) bits are not validated
		return &Value{Type: t, Int: new(big.Int).SetBytes(word)}, nil
	case IntKind:
		return &Value{Type: t, Int: parseTwosComplement(word, t.Bits)}, nil
	case UfixedKind:
		i := new(big.Int).SetBytes(word)
		return &Value{Type: t, Dec: decimal.NewFromBigInt(i, -int32(t.Scale))}, nil
	case FixedKind:
		i := parseTwosComplement(word, t.Bits)
		return &Value{Type: t, Dec: decimal.NewFromBigInt(i, -int32(t.Scale))}, nil
	case AddressKind:
		b := make([]byte, 20)
		copy(b, word[12:])
		return &Value{Type: t, Bytes: b}, nil
	case BoolKind:
		v := false
		for _, b := range word {
			if b != 0 {
				v = true
				break
			}
		}
		return &Value{Type: t, Bool: v}, nil
	case FixedBytesKind:
		b := make([]byte, t.Size)
		copy(b, word[0:t.Size])
		return &Value{Type: t, Bytes: b}, nil
	default:
		return nil, i18n.NewError(ctx, abimsgs.MsgNotEnoughBytesABIValue, t, desc)
	}
}

// decodeLengthWord reads a 32 byte big-endian length or offset,
// rejecting anything that cannot fit in a non-negative int32
func decodeLengthWord(ctx context.Context, desc string, block []byte, pos int) (int, error) {
	if pos+32 > len(block) {
		return -1, i18n.NewError(ctx, abimsgs.MsgNotEnoughBytesABILength, desc)
	}
	i := new(big.Int).SetBytes(block[pos : pos+32])
	if i.BitLen() > 31 {
		return -1, i18n.NewError(ctx, abimsgs.MsgABIArrayCountTooLarge, i.Text(10), desc, int64(1)<<31-1)
	}
	return int(i.Int64()), nil
}
