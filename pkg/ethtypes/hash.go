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

// Hash32 is a 32-byte hash word, as used for event topics and keccak digests.
// Being a value type it compares directly with ==.
type Hash32 [32]byte

func NewHash32FromBytes(b []byte) (Hash32, error) {
	var h Hash32
	if len(b) != 32 {
		return h, fmt.Errorf("bad hash - must be 32 bytes (len=%d)", len(b))
	}
	copy(h[:], b)
	return h, nil
}

func NewHash32FromString(s string) (Hash32, error) {
	var h Hash32
	err := h.SetString(s)
	return h, err
}

// MustNewHash32FromString panics on invalid input, for static initializers and tests
func MustNewHash32FromString(s string) Hash32 {
	h, err := NewHash32FromString(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Hash32) SetString(s string) error {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("bad hash: %s", err)
	}
	if len(b) != 32 {
		return fmt.Errorf("bad hash - must be 32 bytes (len=%d)", len(b))
	}
	copy(h[:], b)
	return nil
}

func (h *Hash32) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return h.SetString(s)
}

func (h Hash32) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, h.String())), nil
}

func (h Hash32) String() string {
	return "0x" + hex.EncodeToString(h[:])
}
