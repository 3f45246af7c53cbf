// Package appstore manages Mac App Store applications through the mas CLI.
//
// Every operation resolves the mas executable, runs one of its subcommands
// through a commandmanager.CommandManager and parses the line-oriented
// output. Nothing is cached between calls: each query lists the installed
// applications again.
package appstore
