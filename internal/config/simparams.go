package config

// SimParam is one simulator-side parameter pushed to the flight controller
// at startup. Save marks parameters that must be written to persistent
// storage on the controller; the rest are session-only overrides.
type SimParam struct {
	Name  string
	Value float64
	Save  bool
}

// simDefaults is the parameter set a fresh controller needs before the
// exchange loop can fly the simulated vehicle: EKF and calibration overrides,
// the RC input ranges the 0..1 channel values map onto, and matching servo
// output ranges. Only the RC input ranges are persisted on the controller;
// everything else is a session-only override. RC2 is reversed because the
// simulator's interlink transmitter reverses that channel. The accelerometer
// offset/scale entries are deliberately near-zero/near-one so the controller
// treats the IMU as calibrated.
var simDefaults = []SimParam{
	{"AHRS_EKF_TYPE", 10, false},
	{"INS_GYR_CAL", 0, false},
	{"RC1_MIN", 1000, true},
	{"RC1_MAX", 2000, true},
	{"RC2_MIN", 1000, true},
	{"RC2_MAX", 2000, true},
	{"RC3_MIN", 1000, true},
	{"RC3_MAX", 2000, true},
	{"RC4_MIN", 1000, true},
	{"RC4_MAX", 2000, true},
	{"RC2_REVERSED", 1, false},
	{"SERVO1_MIN", 1000, false},
	{"SERVO1_MAX", 2000, false},
	{"SERVO2_MIN", 1000, false},
	{"SERVO2_MAX", 2000, false},
	{"SERVO3_MIN", 1000, false},
	{"SERVO3_MAX", 2000, false},
	{"SERVO4_MIN", 1000, false},
	{"SERVO4_MAX", 2000, false},
	{"SERVO5_MIN", 1000, false},
	{"SERVO5_MAX", 2000, false},
	{"SERVO6_MIN", 1000, false},
	{"SERVO6_MAX", 2000, false},
	{"INS_ACC2OFFS_X", 0.001, false},
	{"INS_ACC2OFFS_Y", 0.001, false},
	{"INS_ACC2OFFS_Z", 0.001, false},
	{"INS_ACC2SCAL_X", 1.001, false},
	{"INS_ACC2SCAL_Y", 1.001, false},
	{"INS_ACC2SCAL_Z", 1.001, false},
	{"INS_ACCOFFS_X", 0.001, false},
	{"INS_ACCOFFS_Y", 0.001, false},
	{"INS_ACCOFFS_Z", 0.001, false},
	{"INS_ACCSCAL_X", 1.001, false},
	{"INS_ACCSCAL_Y", 1.001, false},
	{"INS_ACCSCAL_Z", 1.001, false},
}

// DefaultSimParams returns the startup parameter set. Callers get a copy;
// the defaults themselves are immutable.
func DefaultSimParams() []SimParam {
	out := make([]SimParam, len(simDefaults))
	copy(out, simDefaults)
	return out
}
