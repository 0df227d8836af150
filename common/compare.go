package common

import "github.com/nspcc-dev/neo-go/pkg/interop/util"

// BytesEqual compares two byte slices, null values are equal only to each
// other.
func BytesEqual(a []byte, b []byte) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return util.Equals(string(a), string(b))
}
