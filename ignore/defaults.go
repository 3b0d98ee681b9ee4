package ignore

// DefaultExtensions are the file extensions indexed when none are configured:
// C/C++ translation units and headers, plus rich-text exports of legacy code.
var DefaultExtensions = []string{"cpp", "h", "hpp", "cc", "cxx", "rtf"}

// DefaultExcludePrefixes exclude any path whose relative segments start with
// one of these. They cover the usual build output trees and the VCS metadata
// directory.
var DefaultExcludePrefixes = []string{"build", "bin", "obj", ".git"}

// DefaultMaxFileSizeBytes caps how large a file may be before indexing
// skips it.
const DefaultMaxFileSizeBytes = 1024 * 1024
