// Package cli parses command-line arguments into an app.Config and maps
// failures to process exit codes. Exit codes follow sysexits: 64 for usage
// errors, 65 for malformed or cyclic rules, and 66 for a missing input file.
package cli
