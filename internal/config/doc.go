// Package config loads workflow configuration from HCL files into a
// format-agnostic nested model and provides the executor-scoped accessor
// used by the session and its collaborators.
//
// Accessor lookups resolve through three tiers: the explicit configuration
// model, then an environment variable named by convention, then a
// caller-supplied default. Resolved values are memoized per lookup arguments
// for the lifetime of the process.
package config
