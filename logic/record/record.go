// Package record renders the three text records written into the working
// file on every iteration.
package record

import "strconv"

// Payload is the fixed record body. Every record ends with it.
const Payload = `{"f1": "abc", "f2": "xyz", "f3": "lmn" }` + "\n"

// PerFile is the number of records written per iteration.
const PerFile = 3

// Records returns the records for the given iteration counter. The first is
// prefixed with the counter, with no separator; the rest are the bare payload.
//
//	record.Records(0)[0] // `0{"f1": "abc", "f2": "xyz", "f3": "lmn" }` + "\n"
func Records(counter uint64) [PerFile]string {
	return [PerFile]string{
		strconv.FormatUint(counter, 10) + Payload,
		Payload,
		Payload,
	}
}

// File returns the complete working file content for counter.
func File(counter uint64) string {
	r := Records(counter)
	return r[0] + r[1] + r[2]
}
