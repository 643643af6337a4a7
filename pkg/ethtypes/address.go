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
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte Ethereum account identifier. It parses from hex with
// or without an 0x prefix, and formats as 0x prefixed lower case hex.
type Address [20]byte

func NewAddressFromBytes(b []byte) (*Address, error) {
	var a Address
	if len(b) != 20 {
		return nil, fmt.Errorf("bad address - must be 20 bytes (len=%d)", len(b))
	}
	copy(a[:], b)
	return &a, nil
}

func NewAddressFromString(s string) (*Address, error) {
	var a Address
	if err := a.SetString(s); err != nil {
		return nil, err
	}
	return &a, nil
}

// MustNewAddressFromString panics on invalid input, for static initializers and tests
func MustNewAddressFromString(s string) *Address {
	a, err := NewAddressFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Address) SetString(s string) error {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("bad address: %s", err)
	}
	if len(b) != 20 {
		return fmt.Errorf("bad address - must be 20 bytes (len=%d)", len(b))
	}
	copy(a[:], b)
	return nil
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return a.SetString(s)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, a.String())), nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Checksummed returns the EIP-55 mixed-case checksum form of the address.
// https://eips.ethereum.org/EIPS/eip-55
func (a Address) Checksummed() string {

	hexAddr := hex.EncodeToString(a[:])
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(hexAddr))
	hexHash := hex.EncodeToString(hash.Sum(nil))

	buff := strings.Builder{}
	buff.WriteString("0x")
	for i := 0; i < 40; i++ {
		hexHashDigit, _ := strconv.ParseInt(string([]byte{hexHash[i]}), 16, 64)
		if hexHashDigit >= 8 {
			buff.WriteRune(unicode.ToUpper(rune(hexAddr[i])))
		} else {
			buff.WriteRune(unicode.ToLower(rune(hexAddr[i])))
		}
	}
	return buff.String()
}
