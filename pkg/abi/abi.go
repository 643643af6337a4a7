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

/*
The abi package parses Ethereum ABI definitions, and encodes/decodes the
binary payloads they describe - transaction call data, function outputs,
and event logs.

A high level summary of the API is as follows:

	  [ JSON ]       - the ABI definition of a smart contract, as emitted by solc
	     ↓
	  [ ABI ]        - the Go model: constructor, functions, events, errors, entry flags
	     ↓
	  [ Type tree ]  - every parameter's type string (plus tuple components) parses to a Type
	     ↓
	  [ Value tree ] - combine Types with data to decode payloads, or build values to encode
	     ↓
	  [ ABI bytes ]  - head/tail encoded bytes, with selector routing for call data and logs

Example:

	transferABI := `[
		{
			"name": "transfer",
			"type": "function",
			"stateMutability": "nonpayable",
			"inputs": [
				{ "name": "recipient", "type": "address" },
				{ "name": "amount", "type": "uint256" }
			],
			"outputs": [ { "name": "", "type": "bool" } ]
		}
	]`

	a, _ := abi.ParseJSON([]byte(transferABI))
	f := a.Function("transfer")

	// Encode call data, with the 4 byte selector prefix
	callData, _ := f.EncodeCallData([]*abi.Value{
		abi.NewAddressValue(ethtypes.MustNewAddressFromString("0x03706Ff580119B130E7D26C5e816913123C24d89")),
		abi.NewUintValue(256, big.NewInt(1000000)),
	})

	// Route any call data for this contract back to the matching function
	fn, params, _ := a.DecodeInputFromSlice(callData)
	amount, _ := params.Value("amount")

Decoding is tolerant of payload content (unvalidated upper bits on
integers, unvalidated UTF-8 in strings), but strict on structure - every
offset and length is bounds checked before use, and decode work is
bounded by DecodeLimits.
*/
package abi

import (
	"bytes"
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
	"github.com/kaleido-io/ethabi/pkg/ethtypes"
	"github.com/karlseguin/ccache"
	"golang.org/x/crypto/sha3"
)

// StateMutability is how a function or constructor interacts with the
// blockchain state.
type StateMutability string

const (
	Pure       StateMutability = "pure"       // Specified not to read blockchain state
	View       StateMutability = "view"       // Specified not to modify the blockchain state (read-only)
	NonPayable StateMutability = "nonpayable" // The function does not accept ether
	Payable    StateMutability = "payable"    // The function accepts ether
)

// ABI is the parsed model of a contract's Application Binary Interface -
// its constructor, functions, events and errors, plus whether the special
// receive/fallback entry points exist.
//
// An ABI is built by JSON deserialization (see ParseJSON) or
// programmatically, and is immutable once built - all the decode entry
// points borrow from it, and it can be shared freely between goroutines.
//
// Uniqueness of (name, input-types) is not enforced. Overloads are fine,
// but two entries with identical canonical signatures share a selector,
// and selector routing returns whichever is found first.
type ABI struct {
	Constructor *Constructor
	Functions   []*Function
	Events      []*Event
	Errors      []*Error
	HasReceive  bool
	HasFallback bool
}

// Constructor is the contract's deployment entry point (if it defines one)
type Constructor struct {
	Inputs          []*Param
	StateMutability StateMutability
}

// Function is a single callable method of the contract
type Function struct {
	Name            string
	Inputs          []*Param
	Outputs         []*Param
	StateMutability StateMutability
}

// Event is a log entry definition of the contract
type Event struct {
	Name      string
	Inputs    []*Param
	Anonymous bool
}

// Error is a revert reason definition of the contract
type Error struct {
	Name   string
	Inputs []*Param
}

// Function returns the first function with the given name, or nil
func (a *ABI) Function(name string) *Function {
	for _, f := range a.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Event returns the first event with the given name, or nil
func (a *ABI) Event(name string) *Event {
	for _, e := range a.Events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// DecodeInputFromSlice routes call data to the function whose selector
// matches the leading 4 bytes, and decodes the remainder against that
// function's inputs. The first function with a matching selector wins.
func (a *ABI) DecodeInputFromSlice(data []byte) (*Function, DecodedParams, error) {
	return a.DecodeInputFromSliceCtx(context.Background(), data)
}

func (a *ABI) DecodeInputFromSliceCtx(ctx context.Context, data []byte) (*Function, DecodedParams, error) {
	if len(data) < 4 {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgCallDataTooShort, len(data))
	}
	selector := data[0:4]
	for _, f := range a.Functions {
		if bytes.Equal(f.MethodID(), selector) {
			params, err := f.DecodeInputsCtx(ctx, data[4:])
			if err != nil {
				return nil, nil, err
			}
			return f, params, nil
		}
	}
	return nil, nil, i18n.NewError(ctx, abimsgs.MsgUnknownFunctionSelector, "0x"+hex.EncodeToString(selector))
}

// DecodeInputFromHex is DecodeInputFromSlice over a hex string. The
// string is accepted with or without an 0x prefix.
func (a *ABI) DecodeInputFromHex(data string) (*Function, DecodedParams, error) {
	return a.DecodeInputFromHexCtx(context.Background(), data)
}

func (a *ABI) DecodeInputFromHexCtx(ctx context.Context, data string) (*Function, DecodedParams, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
	if err != nil {
		return nil, nil, i18n.WrapError(ctx, err, abimsgs.MsgBadHexCallData, err)
	}
	return a.DecodeInputFromSliceCtx(ctx, b)
}

// DecodeErrorFromSlice routes revert data to the error definition whose
// selector matches the leading 4 bytes, and decodes the remainder
// against that error's inputs.
func (a *ABI) DecodeErrorFromSlice(data []byte) (*Error, DecodedParams, error) {
	return a.DecodeErrorFromSliceCtx(context.Background(), data)
}

func (a *ABI) DecodeErrorFromSliceCtx(ctx context.Context, data []byte) (*Error, DecodedParams, error) {
	if len(data) < 4 {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgCallDataTooShort, len(data))
	}
	selector := data[0:4]
	for _, e := range a.Errors {
		if bytes.Equal(e.MethodID(), selector) {
			values, err := DecodeValuesCtx(ctx, paramTypes(e.Inputs), data[4:])
			if err != nil {
				return nil, nil, err
			}
			return e, zipDecodedParams(e.Inputs, values), nil
		}
	}
	return nil, nil, i18n.NewError(ctx, abimsgs.MsgUnknownErrorSelector, "0x"+hex.EncodeToString(selector))
}

// DecodeLogFromSlice routes an event log to the (non-anonymous) event
// whose topic id matches topic[0], and decodes the topics and data
// against that event's inputs. Anonymous events carry no topic id, so
// they can only be decoded directly with Event.DecodeLog.
func (a *ABI) DecodeLogFromSlice(topics []ethtypes.Hash32, data []byte) (*Event, DecodedParams, error) {
	return a.DecodeLogFromSliceCtx(context.Background(), topics, data)
}

func (a *ABI) DecodeLogFromSliceCtx(ctx context.Context, topics []ethtypes.Hash32, data []byte) (*Event, DecodedParams, error) {
	if len(topics) == 0 {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgMissingEventTopic)
	}
	for _, e := range a.Events {
		if !e.Anonymous && e.TopicID() == topics[0] {
			params, err := e.DecodeLogCtx(ctx, topics, data)
			if err != nil {
				return nil, nil, err
			}
			return e, params, nil
		}
	}
	return nil, nil, i18n.NewError(ctx, abimsgs.MsgUnknownEventTopic, topics[0])
}

// Signature returns the canonical signature string of the function -
// the name and the comma separated canonical input types, with no
// parameter names.
func (f *Function) Signature() string {
	return signatureString(f.Name, f.Inputs)
}

// MethodID computes the 4 byte selector that prefixes call data for
// this function - the leading bytes of the keccak256 hash of the
// canonical signature.
func (f *Function) MethodID() []byte {
	id := make([]byte, 4)
	copy(id, signatureKeccak(f.Signature())[0:4])
	return id
}

// EncodeCallData serializes values for the function's inputs, prefixed
// with the function selector
func (f *Function) EncodeCallData(values []*Value) ([]byte, error) {
	return f.EncodeCallDataCtx(context.Background(), values)
}

func (f *Function) EncodeCallDataCtx(ctx context.Context, values []*Value) ([]byte, error) {
	if err := checkEntryValues(ctx, f.Name, f.Inputs, values); err != nil {
		return nil, err
	}
	encoded, err := EncodeValuesCtx(ctx, values)
	if err != nil {
		return nil, err
	}
	id := f.MethodID()
	data := make([]byte, len(id)+len(encoded))
	copy(data, id)
	copy(data[len(id):], encoded)
	return data, nil
}

// DecodeInputs decodes function input data that has already had the
// 4 byte selector removed
func (f *Function) DecodeInputs(data []byte) (DecodedParams, error) {
	return f.DecodeInputsCtx(context.Background(), data)
}

func (f *Function) DecodeInputsCtx(ctx context.Context, data []byte) (DecodedParams, error) {
	values, err := DecodeValuesCtx(ctx, paramTypes(f.Inputs), data)
	if err != nil {
		return nil, err
	}
	return zipDecodedParams(f.Inputs, values), nil
}

// DecodeOutputs decodes function return data against the function's
// output parameters
func (f *Function) DecodeOutputs(data []byte) (DecodedParams, error) {
	return f.DecodeOutputsCtx(context.Background(), data)
}

func (f *Function) DecodeOutputsCtx(ctx context.Context, data []byte) (DecodedParams, error) {
	values, err := DecodeValuesCtx(ctx, paramTypes(f.Outputs), data)
	if err != nil {
		return nil, err
	}
	return zipDecodedParams(f.Outputs, values), nil
}

// Signature returns the canonical signature string of the error
func (e *Error) Signature() string {
	return signatureString(e.Name, e.Inputs)
}

// MethodID computes the 4 byte selector carried at the front of revert
// data for this error
func (e *Error) MethodID() []byte {
	id := make([]byte, 4)
	copy(id, signatureKeccak(e.Signature())[0:4])
	return id
}

func signatureString(name string, inputs []*Param) string {
	buff := new(strings.Builder)
	buff.WriteString(name)
	buff.WriteByte('(')
	for i, p := range inputs {
		if i > 0 {
			buff.WriteByte(',')
		}
		buff.WriteString(p.Type.String())
	}
	buff.WriteByte(')')
	return buff.String()
}

// checkEntryValues verifies a value list lines up with an entry's
// declared parameters before encoding
func checkEntryValues(ctx context.Context, name string, params []*Param, values []*Value) error {
	if len(values) != len(params) {
		return i18n.NewError(ctx, abimsgs.MsgEncodeArityMismatch, name, len(params), len(values))
	}
	for i, p := range params {
		if values[i] == nil || values[i].Type == nil || values[i].Type.String() != p.Type.String() {
			return i18n.NewError(ctx, abimsgs.MsgEncodeTypeMismatch, i, childTypeDesc(values[i]), name, p.Type)
		}
	}
	return nil
}

// Selector and topic id derivation hashes the same signature strings
// repeatedly on busy decode paths, so the keccak results are memoized
// in a small LRU cache keyed by signature.
var signatureHashCache = ccache.New(ccache.Configure().MaxSize(1024))

const signatureHashTTL = 1 * time.Hour

func signatureKeccak(sig string) []byte {
	item, _ := signatureHashCache.Fetch(sig, signatureHashTTL, func() (interface{}, error) {
		return keccak256([]byte(sig)), nil
	})
	return item.Value().([]byte)
}

func keccak256(b []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(b)
	return hash.Sum(nil)
}
