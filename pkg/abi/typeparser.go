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
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
)

type suffixRule int

const (
	suffixNone        suffixRule = iota // no size suffix is accepted - like "address" or "bool"
	suffixMRequired                     // a single dimension suffix must be supplied - like "uint256"
	suffixMOptional                     // a single dimension suffix may be supplied - "bytes"/"bytes32"
	suffixMxNRequired                   // a two dimensional suffix must be supplied - like "fixed128x18"
)

// elementaryRule defines the string parsing rules for one elementary type
// name, and how to build the resulting Type from the parsed dimensions.
type elementaryRule struct {
	name        string
	suffix      suffixRule
	mMin        int // minimum value of the M dimension
	mMax        int // maximum (inclusive) value of the M dimension
	mMod        int // if non-zero, (M % mMod) == 0 must hold
	nMin        int // minimum value of the N dimension
	nMax        int // maximum (inclusive) value of the N dimension
	description string
	resolve     func(m, n int, suffixed bool) *Type
}

var elementaryRules = map[string]*elementaryRule{}

func registerElementaryRule(r elementaryRule) *elementaryRule {
	elementaryRules[r.name] = &r
	return &r
}

var (
	ruleInt = registerElementaryRule(elementaryRule{
		name:        "int",
		suffix:      suffixMRequired,
		mMin:        8,
		mMax:        256,
		mMod:        8,
		description: "int<M> (8 <= M <= 256, M mod 8 == 0)",
		resolve: func(m, _ int, _ bool) *Type {
			return NewIntType(m)
		},
	})
	ruleUint = registerElementaryRule(elementaryRule{
		name:        "uint",
		suffix:      suffixMRequired,
		mMin:        8,
		mMax:        256,
		mMod:        8,
		description: "uint<M> (8 <= M <= 256, M mod 8 == 0)",
		resolve: func(m, _ int, _ bool) *Type {
			return NewUintType(m)
		},
	})
	ruleFixed = registerElementaryRule(elementaryRule{
		name:        "fixed",
		suffix:      suffixMxNRequired,
		mMin:        8,
		mMax:        256,
		mMod:        8,
		nMin:        1,
		nMax:        80,
		description: "fixed<M>x<N> (8 <= M <= 256, M mod 8 == 0) (1 <= N <= 80)",
		resolve: func(m, n int, _ bool) *Type {
			return NewFixedType(m, n)
		},
	})
	ruleUfixed = registerElementaryRule(elementaryRule{
		name:        "ufixed",
		suffix:      suffixMxNRequired,
		mMin:        8,
		mMax:        256,
		mMod:        8,
		nMin:        1,
		nMax:        80,
		description: "ufixed<M>x<N> (8 <= M <= 256, M mod 8 == 0) (1 <= N <= 80)",
		resolve: func(m, n int, _ bool) *Type {
			return NewUfixedType(m, n)
		},
	})
	ruleAddress = registerElementaryRule(elementaryRule{
		name:        "address",
		suffix:      suffixNone,
		description: "address",
		resolve: func(_, _ int, _ bool) *Type {
			return NewAddressType()
		},
	})
	ruleBool = registerElementaryRule(elementaryRule{
		name:        "bool",
		suffix:      suffixNone,
		description: "bool",
		resolve: func(_, _ int, _ bool) *Type {
			return NewBoolType()
		},
	})
	ruleBytes = registerElementaryRule(elementaryRule{
		name:        "bytes",
		suffix:      suffixMOptional, // "bytes" without a suffix is the dynamic length variant
		mMin:        1,
		mMax:        32,
		description: "bytes / bytes<M> (1 <= M <= 32)",
		resolve: func(m, _ int, suffixed bool) *Type {
			if !suffixed {
				return NewBytesType()
			}
			return NewFixedBytesType(m)
		},
	})
	ruleString = registerElementaryRule(elementaryRule{
		name:        "string",
		suffix:      suffixNone,
		description: "string",
		resolve: func(_, _ int, _ bool) *Type {
			return NewStringType()
		},
	})
	ruleTuple = registerElementaryRule(elementaryRule{
		name:        "tuple",
		suffix:      suffixNone,
		description: "tuple",
		resolve:     nil, // tuples resolve through their component descriptors
	})
)

// ParseType parses a type string from the ABI grammar into a Type.
// Tuple types cannot be parsed this way, as they require the component
// metadata that travels alongside the type string in the ABI JSON - those
// arrive through Param deserialization, or NewTupleType.
func ParseType(typeString string) (*Type, error) {
	return ParseTypeCtx(context.Background(), typeString)
}

func ParseTypeCtx(ctx context.Context, typeString string) (*Type, error) {
	return parseTypeWithComponents(ctx, typeString, nil)
}

func parseTypeWithComponents(ctx context.Context, typeString string, components []*paramDescriptor) (*Type, error) {

	// The elementary type is the lower case alphabetic prefix
	pos := 0
	for pos < len(typeString) && typeString[pos] >= 'a' && typeString[pos] <= 'z' {
		pos++
	}
	name := typeString[0:pos]
	rule, ok := elementaryRules[name]
	if !ok {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnsupportedABIType, name, typeString)
	}

	// Split what remains into the size suffix, and any array suffixes
	suffix, arrays := splitTypeSuffix(typeString, pos)

	var t *Type
	var err error
	if rule == ruleTuple {
		t, err = parseTupleComponents(ctx, typeString, suffix, components)
	} else {
		t, err = parseSizeSuffix(ctx, typeString, rule, suffix)
	}
	if err != nil {
		return nil, err
	}

	if arrays != "" {
		return parseArraySuffixes(ctx, typeString, t, arrays)
	}
	return t, nil
}

// splitTypeSuffix splits out the "256" from the "[8][]" in "uint256[8][]"
func splitTypeSuffix(typeString string, pos int) (string, string) {
	suffixEnd := pos
	for suffixEnd < len(typeString) && typeString[suffixEnd] != '[' {
		suffixEnd++
	}
	return typeString[pos:suffixEnd], typeString[suffixEnd:]
}

func parseTupleComponents(ctx context.Context, typeString, suffix string, components []*paramDescriptor) (*Type, error) {
	if suffix != "" {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnexpectedSuffix, typeString, suffix)
	}
	// A tuple type is meaningless without its component metadata
	if components == nil {
		return nil, i18n.NewError(ctx, abimsgs.MsgTupleComponentsRequired, typeString)
	}
	fields := make([]*TupleField, len(components))
	for i, c := range components {
		childType, err := parseTypeWithComponents(ctx, c.Type, c.Components)
		if err != nil {
			return nil, err
		}
		fields[i] = &TupleField{Name: c.Name, Type: childType}
	}
	return NewTupleType(fields...), nil
}

func parseSizeSuffix(ctx context.Context, typeString string, rule *elementaryRule, suffix string) (*Type, error) {
	switch rule.suffix {
	case suffixNone:
		if suffix != "" {
			return nil, i18n.NewError(ctx, abimsgs.MsgUnexpectedSuffix, typeString, suffix)
		}
		return rule.resolve(0, 0, false), nil
	case suffixMOptional:
		if suffix == "" {
			return rule.resolve(0, 0, false), nil
		}
		m, err := parseMDimension(ctx, typeString, rule, suffix)
		if err != nil {
			return nil, err
		}
		return rule.resolve(m, 0, true), nil
	case suffixMRequired:
		if suffix == "" {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingTypeSuffix, typeString, rule.description)
		}
		m, err := parseMDimension(ctx, typeString, rule, suffix)
		if err != nil {
			return nil, err
		}
		return rule.resolve(m, 0, true), nil
	default: // suffixMxNRequired
		if suffix == "" {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingTypeSuffix, typeString, rule.description)
		}
		m, n, err := parseMxNDimensions(ctx, typeString, rule, suffix)
		if err != nil {
			return nil, err
		}
		return rule.resolve(m, n, true), nil
	}
}

// parseMDimension parses the "256" in "uint256" against the <M> rules of
// the elementary type
func parseMDimension(ctx context.Context, typeString string, rule *elementaryRule, suffix string) (int, error) {
	val, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return -1, i18n.WrapError(ctx, err, abimsgs.MsgInvalidTypeSuffix, typeString, rule.description)
	}
	m := int(val)
	if m < rule.mMin || m > rule.mMax || (rule.mMod != 0 && (m%rule.mMod) != 0) {
		return -1, i18n.NewError(ctx, abimsgs.MsgInvalidTypeSuffix, typeString, rule.description)
	}
	return m, nil
}

// parseMxNDimensions parses the "128x18" in "fixed128x18", validating the
// <M> and <N> parts individually
func parseMxNDimensions(ctx context.Context, typeString string, rule *elementaryRule, suffix string) (int, int, error) {
	xPos := strings.IndexByte(suffix, 'x')
	if xPos <= 0 || xPos == len(suffix)-1 {
		return -1, -1, i18n.NewError(ctx, abimsgs.MsgInvalidTypeSuffix, typeString, rule.description)
	}
	m, err := parseMDimension(ctx, typeString, rule, suffix[0:xPos])
	if err != nil {
		return -1, -1, err
	}
	nVal, err := strconv.ParseUint(suffix[xPos+1:], 10, 16)
	if err != nil {
		return -1, -1, i18n.WrapError(ctx, err, abimsgs.MsgInvalidTypeSuffix, typeString, rule.description)
	}
	n := int(nVal)
	if n < rule.nMin || n > rule.nMax {
		return -1, -1, i18n.NewError(ctx, abimsgs.MsgInvalidTypeSuffix, typeString, rule.description)
	}
	return m, n, nil
}

// parseArraySuffixes wraps the child type in one array layer per bracket
// pair in "[8][]". The suffixes apply left to right, so the first suffix
// parsed binds innermost - "string[2][]" is a variable length array of
// string[2].
func parseArraySuffixes(ctx context.Context, typeString string, t *Type, arrays string) (*Type, error) {
	pos := 0
	for pos < len(arrays) {
		if arrays[pos] != '[' {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidArraySuffix, typeString)
		}
		pos++
		numStart := pos
		for pos < len(arrays) && arrays[pos] != ']' {
			pos++
		}
		if pos >= len(arrays) {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidArraySuffix, typeString)
		}
		numStr := arrays[numStart:pos]
		pos++
		if numStr == "" {
			t = NewArrayType(t)
		} else {
			size, err := strconv.ParseUint(numStr, 10, 32)
			if err != nil {
				return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidArraySuffix, typeString)
			}
			t = NewFixedArrayType(t, int(size))
		}
	}
	return t, nil
}
