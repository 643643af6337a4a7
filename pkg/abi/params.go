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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
)

// Param is one typed input/output of a function, event or error. The
// name is metadata - it never contributes to signatures or selectors.
// Indexed is only set for event parameters.
type Param struct {
	Name    string
	Type    *Type
	Indexed *bool
}

func (p *Param) IsIndexed() bool {
	return p.Indexed != nil && *p.Indexed
}

// paramDescriptor is the JSON shape of a parameter entry. The type
// string and the recursive components metadata together drive the type
// grammar parser. Unknown fields (such as internalType) are tolerated
// and discarded.
type paramDescriptor struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Indexed    *bool              `json:"indexed,omitempty"`
	Components []*paramDescriptor `json:"components,omitempty"`
}

func (p *Param) UnmarshalJSON(b []byte) error {
	ctx := context.Background()
	var pd paramDescriptor
	if err := json.Unmarshal(b, &pd); err != nil {
		return err
	}
	t, err := parseTypeWithComponents(ctx, pd.Type, pd.Components)
	if err != nil {
		return err
	}
	p.Name = pd.Name
	p.Type = t
	p.Indexed = pd.Indexed
	return nil
}

func (p *Param) MarshalJSON() ([]byte, error) {
	pd, err := descriptorForType(context.Background(), p.Type)
	if err != nil {
		return nil, err
	}
	pd.Name = p.Name
	pd.Indexed = p.Indexed
	return json.Marshal(pd)
}

// descriptorForType reverses the type grammar parser - rebuilding the
// JSON type string, with tuples rendered as "tuple" plus a components
// array (rather than their canonical parenthesized signature form).
func descriptorForType(ctx context.Context, t *Type) (*paramDescriptor, error) {
	if t == nil {
		return nil, i18n.NewError(ctx, abimsgs.MsgValueMissingType, "parameter")
	}

	// Peel the array layers, collecting the suffixes outermost first
	suffixes := make([]string, 0)
	base := t
	for base.Kind == ArrayKind || base.Kind == FixedArrayKind {
		if base.Kind == ArrayKind {
			suffixes = append(suffixes, "[]")
		} else {
			suffixes = append(suffixes, fmt.Sprintf("[%d]", base.Size))
		}
		base = base.Elem
	}
	// The innermost array binds the first suffix in the string
	buff := new(strings.Builder)
	for i := len(suffixes) - 1; i >= 0; i-- {
		buff.WriteString(suffixes[i])
	}

	if base.Kind == TupleKind {
		components := make([]*paramDescriptor, len(base.Fields))
		for i, f := range base.Fields {
			child, err := descriptorForType(ctx, f.Type)
			if err != nil {
				return nil, err
			}
			child.Name = f.Name
			components[i] = child
		}
		return &paramDescriptor{Type: "tuple" + buff.String(), Components: components}, nil
	}
	return &paramDescriptor{Type: base.String() + buff.String()}, nil
}

// DecodedParam pairs a declared parameter with the value decoded for it
type DecodedParam struct {
	Param *Param
	Value *Value
}

// DecodedParams is the ordered result of decoding a payload against an
// entry's parameter list. Entries are addressable positionally by slice
// index, or by parameter name.
type DecodedParams []*DecodedParam

// Value looks up a decoded value by parameter name. The first parameter
// with a matching name wins, so parameters with empty names are only
// reachable positionally.
func (dp DecodedParams) Value(name string) (*Value, bool) {
	for _, d := range dp {
		if d.Param.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

func zipDecodedParams(params []*Param, values []*Value) DecodedParams {
	decoded := make(DecodedParams, len(params))
	for i, p := range params {
		decoded[i] = &DecodedParam{Param: p, Value: values[i]}
	}
	return decoded
}

func paramTypes(params []*Param) []*Type {
	types := make([]*Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}
