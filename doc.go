// Package prybar creates temporary entry points in a working set at
// runtime. A ScopedEntryPoint registers a single (group, name) entry point
// under a caller-chosen scope and guarantees its removal afterward, so test
// suites can simulate an installed plugin without installing a package.
//
// The entry point can be described four ways: a live function, a textual
// declaration ("name = module:attr.path"), a pre-built *entrypoint.EntryPoint,
// or explicit name/module/attribute options. Activation is either
// block-scoped (Enter/Exit, with Do and Wrap as sugar) or manual
// (Start/Stop); the two protocols cannot be mixed while active.
package prybar
