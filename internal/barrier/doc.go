// Package barrier implements the synchronization point a session uses to
// decide "is everything done yet". Task producers are created and destroyed
// throughout a run, not known up front, so a fixed countdown primitive cannot
// serve; the Barrier instead tracks a live party count and lets a waiter
// block across rise-and-drain generations until the count is genuinely zero.
package barrier
