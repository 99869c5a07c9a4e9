// Package config loads and validates the YAML generator configuration.
//
// The configuration names the packages to scan, where the runtime facade
// lives, and the trait topology: which named method sets exist, which
// receiver types implement them, and which receiver types hold their default
// bodies. The scanner uses the topology to classify each annotated
// declaration into its definition context.
package config
