// Package registry maps the function names used in network files to the
// compiled function descriptors that implement them.
//
// Function libraries implement Module and add their descriptors during
// application startup. The registry is then validated so that a broken
// descriptor fails at startup rather than while a network is being built.
package registry
