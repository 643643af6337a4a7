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

package abimsgs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

// The FF26 prefix must be registered before the first FFE call below -
// message keys are evaluated at package init, so the registration rides
// in the initializer of the ffe wrapper they all depend on.
var ffe = func() func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	i18n.RegisterPrefix("FF26", "Ethereum ABI Codec")
	return func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
		return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
	}
}()

//revive:disable
var (
	MsgABIDocumentInvalid       = ffe("FF26100", "ABI document failed structural validation: %s")
	MsgUnknownEntryType         = ffe("FF26101", "Unknown ABI entry type '%s' at index %d")
	MsgEntryMissingName         = ffe("FF26102", "ABI %s entry at index %d is missing a name")
	MsgMissingStateMutability   = ffe("FF26103", "ABI %s entry at index %d is missing stateMutability")
	MsgMissingAnonymousField    = ffe("FF26104", "ABI event entry at index %d is missing the anonymous field")
	MsgInvalidStateMutability   = ffe("FF26105", "Invalid stateMutability '%s' at entry index %d")
	MsgBadParameterJSON         = ffe("FF26106", "Invalid %s parameter at position %d in ABI entry %d")
	MsgUnsupportedABIType       = ffe("FF26107", "Unsupported elementary type '%s' in ABI type '%s'")
	MsgUnexpectedSuffix         = ffe("FF26108", "Type '%s' does not take a suffix: %s")
	MsgMissingTypeSuffix        = ffe("FF26109", "ABI type '%s' requires a size suffix: %s")
	MsgInvalidTypeSuffix        = ffe("FF26110", "ABI type '%s' has an invalid size suffix: %s")
	MsgInvalidArraySuffix       = ffe("FF26111", "ABI type '%s' has an invalid array suffix")
	MsgTupleComponentsRequired  = ffe("FF26112", "ABI type '%s' requires tuple component metadata, and none was supplied")
	MsgCallDataTooShort         = ffe("FF26113", "Call data too short to contain a function selector (len=%d)")
	MsgUnknownFunctionSelector  = ffe("FF26114", "Function selector %s does not match any function in the ABI")
	MsgUnknownErrorSelector     = ffe("FF26115", "Error selector %s does not match any error in the ABI")
	MsgMissingEventTopic        = ffe("FF26116", "Log has no topics - cannot match a non-anonymous event")
	MsgUnknownEventTopic        = ffe("FF26117", "Topic %s does not match any event in the ABI")
	MsgEventSignatureMismatch   = ffe("FF26118", "Event '%s' topic id %s does not match topic[0] %s")
	MsgIndexedCountMismatch     = ffe("FF26119", "Event '%s' declares %d indexed parameters, but %d topics were supplied")
	MsgNotEnoughBytesABIValue   = ffe("FF26120", "Insufficient bytes to decode %s value at %s")
	MsgNotEnoughBytesABILength  = ffe("FF26121", "Insufficient bytes to read length/offset at %s")
	MsgABIOffsetOutOfRange      = ffe("FF26122", "Offset %d at %s points outside of the data (len=%d)")
	MsgABIArrayCountTooLarge    = ffe("FF26123", "Array count %s at %s is larger than the maximum allowed (%d)")
	MsgMaxDepthExceeded         = ffe("FF26124", "Maximum decode depth (%d) exceeded at %s")
	MsgWrongTypeValue           = ffe("FF26125", "Value of kind %s cannot be encoded as ABI type '%s' at %s")
	MsgNumberTooLargeABIEncode  = ffe("FF26126", "Numeric value does not fit in %d bit ABI type at %s")
	MsgNegativeUnsignedABI      = ffe("FF26127", "Negative value supplied for unsigned ABI type at %s")
	MsgFixedBytesWrongLength    = ffe("FF26128", "Byte value is %d bytes, but ABI type '%s' requires %d at %s")
	MsgFixedArrayWrongLength    = ffe("FF26129", "Fixed array has %d elements, but ABI type '%s' requires %d at %s")
	MsgTupleWrongArity          = ffe("FF26130", "Tuple has %d members, but ABI type '%s' requires %d at %s")
	MsgFixedPointNotExact       = ffe("FF26131", "Fixed point value cannot be represented with %d decimal digits at %s")
	MsgValueMissingType         = ffe("FF26132", "Value supplied without an associated ABI type at %s")
	MsgBadHexCallData           = ffe("FF26133", "Call data is not valid hex: %s")
	MsgEncodeArityMismatch      = ffe("FF26134", "Entry '%s' takes %d parameters, but %d values were supplied")
	MsgEncodeTypeMismatch       = ffe("FF26135", "Value %d is of ABI type '%s', but entry '%s' requires '%s'")
)
