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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
)

// entryShell is the first-pass parse of one ABI JSON entry. The
// parameters stay raw so that a failure inside a parameter can be
// reported with the entry index and parameter position.
type entryShell struct {
	Type            string            `json:"type"`
	Name            *string           `json:"name"`
	StateMutability *string           `json:"stateMutability"`
	Anonymous       *bool             `json:"anonymous"`
	Inputs          []json.RawMessage `json:"inputs"`
	Outputs         []json.RawMessage `json:"outputs"`
}

func (a *ABI) UnmarshalJSON(data []byte) error {
	return a.parseEntriesCtx(context.Background(), data)
}

func (a *ABI) parseEntriesCtx(ctx context.Context, data []byte) error {
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return err
	}
	parsed := ABI{}
	for i, raw := range rawEntries {
		var shell entryShell
		if err := json.Unmarshal(raw, &shell); err != nil {
			return err
		}
		switch shell.Type {
		case "constructor":
			sm, err := parseStateMutability(ctx, shell, i)
			if err != nil {
				return err
			}
			inputs, err := parseShellParams(ctx, "input", shell.Inputs, i)
			if err != nil {
				return err
			}
			parsed.Constructor = &Constructor{Inputs: inputs, StateMutability: sm}
		case "function":
			if shell.Name == nil {
				return i18n.NewError(ctx, abimsgs.MsgEntryMissingName, shell.Type, i)
			}
			sm, err := parseStateMutability(ctx, shell, i)
			if err != nil {
				return err
			}
			inputs, err := parseShellParams(ctx, "input", shell.Inputs, i)
			if err != nil {
				return err
			}
			outputs, err := parseShellParams(ctx, "output", shell.Outputs, i)
			if err != nil {
				return err
			}
			parsed.Functions = append(parsed.Functions, &Function{
				Name:            *shell.Name,
				Inputs:          inputs,
				Outputs:         outputs,
				StateMutability: sm,
			})
		case "event":
			if shell.Name == nil {
				return i18n.NewError(ctx, abimsgs.MsgEntryMissingName, shell.Type, i)
			}
			if shell.Anonymous == nil {
				return i18n.NewError(ctx, abimsgs.MsgMissingAnonymousField, i)
			}
			inputs, err := parseShellParams(ctx, "input", shell.Inputs, i)
			if err != nil {
				return err
			}
			parsed.Events = append(parsed.Events, &Event{
				Name:      *shell.Name,
				Inputs:    inputs,
				Anonymous: *shell.Anonymous,
			})
		case "error":
			if shell.Name == nil {
				return i18n.NewError(ctx, abimsgs.MsgEntryMissingName, shell.Type, i)
			}
			inputs, err := parseShellParams(ctx, "input", shell.Inputs, i)
			if err != nil {
				return err
			}
			parsed.Errors = append(parsed.Errors, &Error{Name: *shell.Name, Inputs: inputs})
		case "receive":
			// The stateMutability of receive/fallback entries is ignored
			parsed.HasReceive = true
		case "fallback":
			parsed.HasFallback = true
		default:
			return i18n.NewError(ctx, abimsgs.MsgUnknownEntryType, shell.Type, i)
		}
	}
	*a = parsed
	return nil
}

func parseStateMutability(ctx context.Context, shell entryShell, idx int) (StateMutability, error) {
	if shell.StateMutability == nil {
		return "", i18n.NewError(ctx, abimsgs.MsgMissingStateMutability, shell.Type, idx)
	}
	sm := StateMutability(*shell.StateMutability)
	switch sm {
	case Pure, View, NonPayable, Payable:
		return sm, nil
	default:
		return "", i18n.NewError(ctx, abimsgs.MsgInvalidStateMutability, sm, idx)
	}
}

func parseShellParams(ctx context.Context, io string, raw []json.RawMessage, entryIdx int) ([]*Param, error) {
	params := make([]*Param, len(raw))
	for j, r := range raw {
		p := &Param{}
		if err := json.Unmarshal(r, p); err != nil {
			return nil, i18n.WrapError(ctx, err, abimsgs.MsgBadParameterJSON, io, j, entryIdx)
		}
		params[j] = p
	}
	return params, nil
}

type constructorEntryJSON struct {
	Type            string          `json:"type"`
	Inputs          []*Param        `json:"inputs"`
	StateMutability StateMutability `json:"stateMutability"`
}

type functionEntryJSON struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Inputs          []*Param        `json:"inputs"`
	Outputs         []*Param        `json:"outputs"`
	StateMutability StateMutability `json:"stateMutability"`
}

type eventEntryJSON struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Inputs    []*Param `json:"inputs"`
	Anonymous bool     `json:"anonymous"`
}

type errorEntryJSON struct {
	Type   string   `json:"type"`
	Name   string   `json:"name"`
	Inputs []*Param `json:"inputs"`
}

type specialEntryJSON struct {
	Type            string          `json:"type"`
	StateMutability StateMutability `json:"stateMutability"`
}

// MarshalJSON re-emits the schema as the standard entry array. The
// constructor is always emitted as nonpayable, and the receive/fallback
// entries as payable.
func (a *ABI) MarshalJSON() ([]byte, error) {
	entries := make([]interface{}, 0, len(a.Functions)+len(a.Events)+len(a.Errors)+3)
	if a.Constructor != nil {
		entries = append(entries, &constructorEntryJSON{
			Type:            "constructor",
			Inputs:          orEmptyParams(a.Constructor.Inputs),
			StateMutability: NonPayable,
		})
	}
	for _, f := range a.Functions {
		entries = append(entries, &functionEntryJSON{
			Type:            "function",
			Name:            f.Name,
			Inputs:          orEmptyParams(f.Inputs),
			Outputs:         orEmptyParams(f.Outputs),
			StateMutability: f.StateMutability,
		})
	}
	for _, e := range a.Events {
		entries = append(entries, &eventEntryJSON{
			Type:      "event",
			Name:      e.Name,
			Inputs:    orEmptyParams(e.Inputs),
			Anonymous: e.Anonymous,
		})
	}
	for _, e := range a.Errors {
		entries = append(entries, &errorEntryJSON{
			Type:   "error",
			Name:   e.Name,
			Inputs: orEmptyParams(e.Inputs),
		})
	}
	if a.HasReceive {
		entries = append(entries, &specialEntryJSON{Type: "receive", StateMutability: Payable})
	}
	if a.HasFallback {
		entries = append(entries, &specialEntryJSON{Type: "fallback", StateMutability: Payable})
	}
	return json.Marshal(entries)
}

func orEmptyParams(params []*Param) []*Param {
	if params == nil {
		return []*Param{}
	}
	return params
}
