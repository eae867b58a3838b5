// Package telemetry holds the vehicle-state snapshot for the Flight Control
// Container and fans applied snapshots out to SSE clients.
//
// The tag vocabulary is fixed at construction time: twelve receiver channels
// (rcin0..rcin11) plus the named simulator-state fields. Replies may only
// overwrite values for tags the store already knows; unknown tags are dropped.
package telemetry
