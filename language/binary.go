package language

import "bytes"

// binarySniffLen is how many leading bytes are inspected for binary markers.
const binarySniffLen = 512

// IsBinaryContent reports whether data looks like binary rather than source
// text. A NUL byte inside the leading window is treated as a binary marker.
func IsBinaryContent(data []byte) bool {
	window := data
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}
