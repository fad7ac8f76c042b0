// Package core provides the module system foundation for bottery.
package core

// ModuleID uniquely identifies a module, namespaced by dots
// (e.g. "channel.telegram", "gateway.http").
type ModuleID string

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements. Modules opt in
// to lifecycle phases by additionally implementing Configurable,
// Provisioner, Validator, Starter, or Stopper.
type Module interface {
	ModuleInfo() ModuleInfo
}
