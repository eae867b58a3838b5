// Package session orchestrates exchange cycles against the flight-dynamics
// simulator: encode the control vector, send it through the transport, decode
// the telemetry reply into the state store, and keep the physics frame-time
// estimate current.
//
// A session has two states. It starts Uninitialized and becomes Active once
// the restore/inject handshake has installed this container as the
// simulator's controller. The control loop re-activates whenever the store
// reports the controller interface inactive or the simulator's reset pressed;
// activation is idempotent and safe to repeat.
package session
