// Package main hosts the ywbridge CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into workflow requests:
// generating office documents from a yWriter project, writing edited
// documents back, importing plain documents as new projects, and inspecting
// the conversion journal. Configuration, logging and the journal are resolved
// once per invocation in commandContext so subcommands only describe what
// they print.
package main
