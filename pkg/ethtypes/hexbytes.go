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

package ethtypes

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HexBytes is a byte slice that is JSON stored/retrieved as 0x prefixed hex,
// tolerating input with or without the prefix.
type HexBytes []byte

func NewHexBytesFromString(s string) (HexBytes, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bad hex: %s", err)
	}
	return HexBytes(b), nil
}

// MustNewHexBytesFromString panics on invalid input, for static initializers and tests
func MustNewHexBytesFromString(s string) HexBytes {
	h, err := NewHexBytesFromString(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *HexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := NewHexBytesFromString(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, h.String())), nil
}

func (h HexBytes) String() string {
	return "0x" + hex.EncodeToString(h)
}
