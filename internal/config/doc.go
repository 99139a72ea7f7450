// Package config defines the format-agnostic scenario model for the
// application, along with the Loader interface for reading scenarios from
// files.
//
// A scenario names a planning run: how many workers, what base offset, which
// mode and universe, and optionally a set of inline rules. Every setting is
// optional so a scenario can override only what it cares about. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
