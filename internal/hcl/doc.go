// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing `scenario`
// blocks, evaluating their attribute expressions, and converting the
// resulting cty values into the Go types of the config model.
//
// A scenario file looks like:
//
//	scenario "part2" {
//	  workers     = 5
//	  base_offset = default_offset
//	  mode        = "time"
//	}
//
// Expressions may reference the variables `alphabet_size` and
// `default_offset` and call the functions `min`, `max`, `upper` and `format`.
package hcl
