// Package envelope builds and parses the FlightAxis Link SOAP envelopes.
//
// The three outbound bodies (RestoreOriginalControllerDevice,
// InjectUAVControllerInterface, ExchangeData) are a fixed external contract
// and must match the simulator's dialect byte-for-byte; the templates here are
// not to be reformatted. The decoder understands the one reply shape the
// simulator produces: a body whose first child carries, in order, the
// channel-values block, the aircraft-state block and the notification block.
package envelope
