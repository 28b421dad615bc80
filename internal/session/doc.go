// Package session runs one live mock interview.
//
// The Controller owns all session state on a single goroutine. Stream
// readers, the recorder, the frame pump and the public methods only post
// events and commands into its inbox, so aggregation needs no locks and
// every transition is serialized. The lifecycle is
// awaiting-resume -> live -> ended; ended is terminal and is entered exactly
// once, as the first step of finalization, which makes duplicate end
// triggers harmless.
//
// Finalization merges the terminal visual report (when one triggered it)
// over the last-known realtime values, adds the audio aggregate mean, the
// last answer quality, the captured clock value and the resolved identity,
// then hands the Result to the Persister. The completion hook runs whether
// or not persistence succeeded.
package session
