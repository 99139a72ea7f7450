// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle (resolve
// settings, read rules, build the graph, simulate, report), decoupled from
// any specific entrypoint like a CLI.
package app
