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

import "math/big"

var singleBit = big.NewInt(1)
var oneMoreThanMaxUint256 = new(big.Int).Lsh(singleBit, 256)             // a one then 256 zeros
var fullBits256 = new(big.Int).Sub(oneMoreThanMaxUint256, big.NewInt(1)) // all ones for 256 bits

// serializeTwosComplement256 writes a signed integer into a 32 byte word.
// Go doesn't have a function to serialize bytes in two's complement, but a
// bitwise AND gives a positive integer containing the bits of the two's
// complement value over the full 256 bits.
func serializeTwosComplement256(i *big.Int) []byte {
	tcI := new(big.Int).And(i, fullBits256)
	b := make([]byte, 32)
	return tcI.FillBytes(b)
}

// parseTwosComplement reads a signed integer of the declared bit width
// from the trailing bytes of a 32 byte word, sign-extending from bit
// (bits-1).
func parseTwosComplement(word []byte, bits int) *big.Int {
	i := new(big.Int).SetBytes(word[len(word)-bits/8:])
	// If the sign bit is not set, this is a positive number
	if i.Bit(bits-1) == 0 {
		return i
	}
	return i.Sub(i, new(big.Int).Lsh(singleBit, uint(bits)))
}

// checkSignedIntFits determines whether i is representable as a two's
// complement integer of the given bit width
func checkSignedIntFits(i *big.Int, bits int) bool {
	if i.Sign() >= 0 {
		return i.BitLen() <= bits-1
	}
	negLimit := new(big.Int).Lsh(singleBit, uint(bits-1))
	return new(big.Int).Neg(i).Cmp(negLimit) <= 0
}
