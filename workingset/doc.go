// Package workingset implements the shared registry that temporary entry
// points are registered into: a table of distributions keyed by normalized
// project name, each owning an ordered group -> name -> entry point map.
//
// A WorkingSet is injectable so tests can run against isolated instances;
// Default returns the process-wide set that callers share when they don't
// provide their own. Every WorkingSet method is atomic under an internal
// lock, but no coordination happens across calls — callers coordinate
// multi-step sequences themselves.
package workingset
