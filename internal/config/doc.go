// Package config defines the format-agnostic model of an authored network,
// along with the Loader interface used to read it from a concrete format.
//
// The config.Model is the single input of the builder package. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
