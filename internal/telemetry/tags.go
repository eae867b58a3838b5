package telemetry

// Receiver channel tags. rcin0..rcin11 map positionally to the simulator's
// channel-values block.
const (
	TagPhysicsTime      = "m-currentPhysicsTime-SEC"
	TagControllerActive = "m-flightAxisControllerIsActive"
	TagResetPressed     = "m-resetButtonHasBeenPressed"
	TagAircraftStatus   = "m-currentAircraftStatus"
)

// ChannelCount is the number of receiver channels exchanged per cycle.
const ChannelCount = 12

// tagDefaults declares the closed tag vocabulary together with each tag's
// expected kind and initial value. Receiver sticks (roll/pitch/yaw) start at
// mid-stick, throttle and the aux channels at zero. Battery and rotor fields
// start at -1, the simulator's "not reported" marker. The key set never
// changes at runtime.
var tagDefaults = map[string]Value{
	"rcin0":  FloatValue(0.5),
	"rcin1":  FloatValue(0.5),
	"rcin2":  FloatValue(0.0),
	"rcin3":  FloatValue(0.5),
	"rcin4":  FloatValue(0.0),
	"rcin5":  FloatValue(0.0),
	"rcin6":  FloatValue(0.0),
	"rcin7":  FloatValue(0.0),
	"rcin8":  FloatValue(0.0),
	"rcin9":  FloatValue(0.0),
	"rcin10": FloatValue(0.0),
	"rcin11": FloatValue(0.0),

	TagPhysicsTime:                    FloatValue(0),
	"m-currentPhysicsSpeedMultiplier": FloatValue(1),
	"m-airspeed-MPS":                  FloatValue(0),
	"m-altitudeASL-MTR":               FloatValue(0),
	"m-altitudeAGL-MTR":               FloatValue(0),
	"m-groundspeed-MPS":               FloatValue(0),
	"m-pitchRate-DEGpSEC":             FloatValue(0),
	"m-rollRate-DEGpSEC":              FloatValue(0),
	"m-yawRate-DEGpSEC":               FloatValue(0),
	"m-azimuth-DEG":                   FloatValue(0),
	"m-inclination-DEG":               FloatValue(0),
	"m-roll-DEG":                      FloatValue(0),
	"m-orientationQuaternion-X":       FloatValue(0),
	"m-orientationQuaternion-Y":       FloatValue(0),
	"m-orientationQuaternion-Z":       FloatValue(0),
	"m-orientationQuaternion-W":       FloatValue(0),
	"m-aircraftPositionX-MTR":         FloatValue(0),
	"m-aircraftPositionY-MTR":         FloatValue(0),
	"m-velocityWorldU-MPS":            FloatValue(0),
	"m-velocityWorldV-MPS":            FloatValue(0),
	"m-velocityWorldW-MPS":            FloatValue(0),
	"m-velocityBodyU-MPS":             FloatValue(0),
	"m-velocityBodyV-MPS":             FloatValue(0),
	"m-velocityBodyW-MPS":             FloatValue(0),
	"m-accelerationWorldAX-MPS2":      FloatValue(0),
	"m-accelerationWorldAY-MPS2":      FloatValue(0),
	"m-accelerationWorldAZ-MPS2":      FloatValue(0),
	"m-accelerationBodyAX-MPS2":       FloatValue(0),
	"m-accelerationBodyAY-MPS2":       FloatValue(0),
	"m-accelerationBodyAZ-MPS2":       FloatValue(0),
	"m-windX-MPS":                     FloatValue(0),
	"m-windY-MPS":                     FloatValue(0),
	"m-windZ-MPS":                     FloatValue(0),
	"m-propRPM":                       FloatValue(0),
	"m-heliMainRotorRPM":              FloatValue(-1),
	"m-batteryVoltage-VOLTS":          FloatValue(-1),
	"m-batteryCurrentDraw-AMPS":       FloatValue(-1),
	"m-batteryRemainingCapacity-MAH":  FloatValue(-1),
	"m-fuelRemaining-OZ":              FloatValue(0),
	"m-isLocked":                      BoolValue(false),
	"m-hasLostComponents":             BoolValue(false),
	"m-anEngineIsRunning":             BoolValue(true),
	"m-isTouchingGround":              BoolValue(true),
	TagControllerActive:               BoolValue(false),
	TagAircraftStatus:                 StringValue("CAS-FLYING"),
	TagResetPressed:                   BoolValue(false),
}

// KnownTag reports whether tag belongs to the fixed vocabulary.
func KnownTag(tag string) bool {
	_, ok := tagDefaults[tag]
	return ok
}

// ChannelTag returns the receiver tag for channel index i (rcin0..rcin11).
func ChannelTag(i int) string {
	return channelTags[i]
}

var channelTags = [ChannelCount]string{
	"rcin0", "rcin1", "rcin2", "rcin3", "rcin4", "rcin5",
	"rcin6", "rcin7", "rcin8", "rcin9", "rcin10", "rcin11",
}
