// Package hcl provides the HCL implementation of the config.Loader interface.
// It is responsible for file discovery, parsing, and the translation of
// `input`, `node` and `output` blocks into the format-agnostic model. It also
// parses the standalone HCL expressions given on the command line.
package hcl
