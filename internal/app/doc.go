// Package app contains the composition root. It builds the logger, loads the
// workflow configuration, wires observers into a session, and drives one run
// through its full lifecycle, decoupled from any specific entrypoint.
package app
