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
	"encoding/json"
	"testing"

	"github.com/kaleido-io/ethabi/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferEventABI = `[
	{
		"anonymous": false,
		"inputs": [
			{ "indexed": true, "name": "from", "type": "address" },
			{ "indexed": true, "name": "to", "type": "address" },
			{ "indexed": false, "name": "value", "type": "uint256" }
		],
		"name": "Transfer",
		"type": "event"
	}
]`

func TestEventTopicID(t *testing.T) {
	a, err := ParseJSON([]byte(transferEventABI))
	require.NoError(t, err)
	e := a.Event("Transfer")
	assert.Equal(t, "Transfer(address,address,uint256)", e.Signature())
	// The topic id is the full 32 byte hash - not truncated like a
	// function selector
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		e.TopicID().String())
}

func TestDecodeTransferLog(t *testing.T) {
	a, err := ParseJSON([]byte(transferEventABI))
	require.NoError(t, err)
	e := a.Event("Transfer")

	topics := []ethtypes.Hash32{
		e.TopicID(),
		ethtypes.MustNewHash32FromString("0x00000000000000000000000003706ff580119b130e7d26c5e816913123c24d89"),
		ethtypes.MustNewHash32FromString("0x000000000000000000000000497eedc4299dea2f2a364be10025d0ad0f702de3"),
	}
	data := mustDecodeHex(t, "00000000000000000000000000000000000000000000000000000000000f4240")

	decodedE, params, err := a.DecodeLogFromSlice(topics, data)
	require.NoError(t, err)
	assert.Same(t, e, decodedE)
	require.Len(t, params, 3)

	// Values zip back into declared parameter order
	assert.Equal(t, "from", params[0].Param.Name)
	assert.Equal(t, "03706ff580119b130e7d26c5e816913123c24d89", hex.EncodeToString(params[0].Value.Bytes))
	assert.Equal(t, "to", params[1].Param.Name)
	assert.Equal(t, "497eedc4299dea2f2a364be10025d0ad0f702de3", hex.EncodeToString(params[1].Value.Bytes))
	assert.Equal(t, "value", params[2].Param.Name)
	assert.Equal(t, int64(1000000), params[2].Value.Int.Int64())
}

func TestDecodeLogRoutingErrors(t *testing.T) {
	a, err := ParseJSON([]byte(transferEventABI))
	require.NoError(t, err)

	_, _, err = a.DecodeLogFromSlice([]ethtypes.Hash32{}, []byte{})
	assert.Regexp(t, "FF26116", err)

	unknown := ethtypes.MustNewHash32FromString("0x1111111111111111111111111111111111111111111111111111111111111111")
	_, _, err = a.DecodeLogFromSlice([]ethtypes.Hash32{unknown}, []byte{})
	assert.Regexp(t, "FF26117", err)
}

func TestDecodeLogTopicChecks(t *testing.T) {
	a, err := ParseJSON([]byte(transferEventABI))
	require.NoError(t, err)
	e := a.Event("Transfer")

	_, err = e.DecodeLog([]ethtypes.Hash32{}, []byte{})
	assert.Regexp(t, "FF26116", err)

	wrongTopic := ethtypes.MustNewHash32FromString("0x1111111111111111111111111111111111111111111111111111111111111111")
	_, err = e.DecodeLog([]ethtypes.Hash32{wrongTopic}, []byte{})
	assert.Regexp(t, "FF26118", err)

	// Declared two indexed parameters, only one topic supplied
	_, err = e.DecodeLog([]ethtypes.Hash32{
		e.TopicID(),
		ethtypes.MustNewHash32FromString("0x00000000000000000000000003706ff580119b130e7d26c5e816913123c24d89"),
	}, []byte{})
	assert.Regexp(t, "FF26119", err)
}

func TestDecodeLogIndexedDynamicType(t *testing.T) {
	var a ABI
	err := json.Unmarshal([]byte(`[
		{
			"anonymous": false,
			"inputs": [
				{ "indexed": true, "name": "name", "type": "string" },
				{ "indexed": false, "name": "v", "type": "uint256" }
			],
			"name": "Named",
			"type": "event"
		}
	]`), &a)
	require.NoError(t, err)
	e := a.Event("Named")

	// The topic of a dynamic indexed parameter is keccak256 of the
	// value - here for the string "hello"
	nameHash := ethtypes.MustNewHash32FromString("0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8")
	data := mustDecodeHex(t, "0000000000000000000000000000000000000000000000000000000000000005")

	params, err := e.DecodeLog([]ethtypes.Hash32{e.TopicID(), nameHash}, data)
	require.NoError(t, err)

	// The value is unrecoverable, so the decode yields the raw 32 byte
	// topic as a bytes32 value - never a failure
	name := params[0].Value
	assert.Equal(t, FixedBytesKind, name.Type.Kind)
	assert.Equal(t, 32, name.Type.Size)
	assert.Equal(t, nameHash[:], name.Bytes)

	assert.Equal(t, int64(5), params[1].Value.Int.Int64())
}

func TestDecodeAnonymousEvent(t *testing.T) {
	var a ABI
	err := json.Unmarshal([]byte(`[
		{
			"anonymous": true,
			"inputs": [
				{ "indexed": true, "name": "x", "type": "uint256" },
				{ "indexed": false, "name": "y", "type": "bool" }
			],
			"name": "Anon",
			"type": "event"
		}
	]`), &a)
	require.NoError(t, err)
	e := a.Event("Anon")

	// No selector topic - the first topic is the first indexed value
	topics := []ethtypes.Hash32{
		ethtypes.MustNewHash32FromString("0x000000000000000000000000000000000000000000000000000000000000002a"),
	}
	data := mustDecodeHex(t, "0000000000000000000000000000000000000000000000000000000000000001")

	params, err := e.DecodeLog(topics, data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), params[0].Value.Int.Int64())
	assert.True(t, params[1].Value.Bool)

	// Topic count must exactly match the indexed count
	_, err = e.DecodeLog([]ethtypes.Hash32{}, data)
	assert.Regexp(t, "FF26119", err)
	_, err = e.DecodeLog([]ethtypes.Hash32{topics[0], topics[0]}, data)
	assert.Regexp(t, "FF26119", err)
}

func TestDecodeLogIndexedStaticTooWide(t *testing.T) {
	var a ABI
	err := json.Unmarshal([]byte(`[
		{
			"anonymous": true,
			"inputs": [
				{ "indexed": true, "name": "pair", "type": "uint256[2]" }
			],
			"name": "Wide",
			"type": "event"
		}
	]`), &a)
	require.NoError(t, err)
	e := a.Event("Wide")

	// A static type wider than one word cannot be recovered from a
	// single 32 byte topic
	topic := ethtypes.MustNewHash32FromString("0x000000000000000000000000000000000000000000000000000000000000002a")
	_, err = e.DecodeLog([]ethtypes.Hash32{topic}, []byte{})
	assert.Regexp(t, "FF26120", err)
}

func TestDecodeLogNonIndexedDataError(t *testing.T) {
	a, err := ParseJSON([]byte(transferEventABI))
	require.NoError(t, err)
	e := a.Event("Transfer")

	topics := []ethtypes.Hash32{
		e.TopicID(),
		ethtypes.MustNewHash32FromString("0x00000000000000000000000003706ff580119b130e7d26c5e816913123c24d89"),
		ethtypes.MustNewHash32FromString("0x000000000000000000000000497eedc4299dea2f2a364be10025d0ad0f702de3"),
	}
	// Transfer carries a uint256 in the data segment - an empty data
	// payload is short
	_, err = e.DecodeLog(topics, []byte{})
	assert.Regexp(t, "FF26120", err)
}
