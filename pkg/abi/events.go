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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/kaleido-io/ethabi/internal/abimsgs"
	"github.com/kaleido-io/ethabi/pkg/ethtypes"
)

// Signature returns the canonical signature string of the event
func (e *Event) Signature() string {
	return signatureString(e.Name, e.Inputs)
}

// TopicID computes the 32 byte topic hash that identifies the event in
// topic[0] of its logs - the full keccak256 of the canonical signature
// (unlike function selectors, which truncate the same hash to 4 bytes).
func (e *Event) TopicID() ethtypes.Hash32 {
	var id ethtypes.Hash32
	copy(id[:], signatureKeccak(e.Signature()))
	return id
}

// DecodeLog decodes the topics and data of one log entry against the
// event's parameters.
//
// Indexed parameters are carried one per topic (after the topic id, for
// non-anonymous events), non-indexed parameters are ABI encoded into the
// data. An indexed parameter of dynamic type is not recoverable - the
// topic stores the keccak256 hash of the value - so it decodes to a
// bytes32 value carrying the raw topic.
func (e *Event) DecodeLog(topics []ethtypes.Hash32, data []byte) (DecodedParams, error) {
	return e.DecodeLogCtx(context.Background(), topics, data)
}

func (e *Event) DecodeLogCtx(ctx context.Context, topics []ethtypes.Hash32, data []byte) (DecodedParams, error) {

	// Split the parameters into indexed and non-indexed, preserving the
	// declared order for the final zip
	indexed := make([]*Param, 0, len(e.Inputs))
	nonIndexed := make([]*Param, 0, len(e.Inputs))
	for _, p := range e.Inputs {
		if p.IsIndexed() {
			indexed = append(indexed, p)
		} else {
			nonIndexed = append(nonIndexed, p)
		}
	}

	valueTopics := topics
	if !e.Anonymous {
		if len(topics) == 0 {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingEventTopic)
		}
		if topicID := e.TopicID(); topics[0] != topicID {
			return nil, i18n.NewError(ctx, abimsgs.MsgEventSignatureMismatch, e.Name, topicID, topics[0])
		}
		valueTopics = topics[1:]
	}
	if len(valueTopics) != len(indexed) {
		return nil, i18n.NewError(ctx, abimsgs.MsgIndexedCountMismatch, e.Name, len(indexed), len(valueTopics))
	}

	dataValues, err := DecodeValuesCtx(ctx, paramTypes(nonIndexed), data)
	if err != nil {
		return nil, err
	}

	topicValues := make([]*Value, len(indexed))
	for i, p := range indexed {
		if topicValues[i], err = decodeIndexedTopic(ctx, p, valueTopics[i]); err != nil {
			return nil, err
		}
	}

	// Zip the two decoded streams back into declared parameter order
	decoded := make(DecodedParams, len(e.Inputs))
	topicCursor, dataCursor := 0, 0
	for i, p := range e.Inputs {
		if p.IsIndexed() {
			decoded[i] = &DecodedParam{Param: p, Value: topicValues[topicCursor]}
			topicCursor++
		} else {
			decoded[i] = &DecodedParam{Param: p, Value: dataValues[dataCursor]}
			dataCursor++
		}
	}
	return decoded, nil
}

// decodeIndexedTopic extracts the value of a single indexed parameter
// from its 32 byte topic word
func decodeIndexedTopic(ctx context.Context, p *Param, topic ethtypes.Hash32) (*Value, error) {
	if p.Type.IsDynamic() {
		// The topic is keccak256 of the encoded value. The value itself
		// is gone - return the hash as a bytes32 value.
		return NewFixedBytesValue(topic[:]), nil
	}
	// Static indexed values are encoded into the topic exactly as they
	// would be into call data
	values, err := DecodeValuesCtx(ctx, []*Type{p.Type}, topic[:])
	if err != nil {
		return nil, err
	}
	return values[0], nil
}
