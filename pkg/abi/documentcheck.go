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
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The structural rules of the ABI document format, enforced ahead of the
// entry-by-entry parse so that malformed documents fail with a precise
// JSON pointer rather than a partial parse. Additional properties (such
// as internalType) are deliberately tolerated.
var abiDocumentSchema = jsonschema.MustCompileString("abiDocument.json", `{
	"type": "array",
	"items": { "$ref": "#/$defs/entry" },
	"$defs": {
		"entry": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {
					"enum": ["constructor", "function", "event", "error", "receive", "fallback"]
				}
			},
			"allOf": [
				{
					"if": { "properties": { "type": { "const": "constructor" } } },
					"then": {
						"required": ["stateMutability"],
						"properties": {
							"stateMutability": { "$ref": "#/$defs/stateMutability" },
							"inputs": { "$ref": "#/$defs/parameterList" }
						}
					}
				},
				{
					"if": { "properties": { "type": { "const": "function" } } },
					"then": {
						"required": ["name", "stateMutability"],
						"properties": {
							"name": { "type": "string" },
							"stateMutability": { "$ref": "#/$defs/stateMutability" },
							"inputs": { "$ref": "#/$defs/parameterList" },
							"outputs": { "$ref": "#/$defs/parameterList" }
						}
					}
				},
				{
					"if": { "properties": { "type": { "const": "event" } } },
					"then": {
						"required": ["name", "anonymous"],
						"properties": {
							"name": { "type": "string" },
							"anonymous": { "type": "boolean" },
							"inputs": { "$ref": "#/$defs/parameterList" }
						}
					}
				},
				{
					"if": { "properties": { "type": { "const": "error" } } },
					"then": {
						"required": ["name"],
						"properties": {
							"name": { "type": "string" },
							"inputs": { "$ref": "#/$defs/parameterList" }
						}
					}
				}
			]
		},
		"parameterList": {
			"type": "array",
			"items": { "$ref": "#/$defs/parameter" }
		},
		"parameter": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"name": { "type": "string" },
				"type": { "type": "string" },
				"indexed": { "type": "boolean" },
				"components": { "$ref": "#/$defs/parameterList" }
			}
		},
		"stateMutability": {
			"enum": ["pure", "view", "nonpayable", "payable"]
		}
	}
}`)

// ParseJSON builds an ABI from its JSON document form, validating the
// document structure against the format's JSON schema before parsing
// the entries and their type strings.
//
// Plain json.Unmarshal into an ABI performs the same entry parsing
// without the up-front structural validation.
func ParseJSON(data []byte) (*ABI, error) {
	return ParseJSONCtx(context.Background(), data)
}

func ParseJSONCtx(ctx context.Context, data []byte) (*ABI, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := abiDocumentSchema.Validate(doc); err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgABIDocumentInvalid, err)
	}
	var a ABI
	if err := a.parseEntriesCtx(ctx, data); err != nil {
		return nil, err
	}
	log.L(ctx).Debugf("Parsed ABI document: functions=%d events=%d errors=%d", len(a.Functions), len(a.Events), len(a.Errors))
	return &a, nil
}
