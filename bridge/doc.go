// Package bridge is the boundary between a host runtime and the terminal
// library. It decodes foreign command records into terminal commands,
// encodes input events back into foreign records, and guarantees that every
// failure reaches the caller as a raised exception instead of a crash.
//
// Entry points follow the host's dual-channel convention: the return value
// is meaningful only when no exception was raised through the Env. Go
// callers that want a plain (value, error) pair use Guard.
//
// Nothing in this package locks. One logical writer owns a Bridge.
package bridge
