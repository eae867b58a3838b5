package envelope

import (
	"errors"
	"fmt"

	"github.com/flight-control/fcc/internal/telemetry"
)

// Action names the three soapactions the simulator accepts.
type Action string

const (
	ActionRestore  Action = "RestoreOriginalControllerDevice"
	ActionInject   Action = "InjectUAVControllerInterface"
	ActionExchange Action = "ExchangeData"
)

// SelectedChannelsMask selects all 12 channels (bits 0..11).
const SelectedChannelsMask = 4095

// ErrBadVectorLength indicates a control vector whose length is not exactly
// ChannelCount. Rejected before any transport I/O.
var ErrBadVectorLength = errors.New("INVALID_CONTROL_VECTOR_LENGTH")

// ErrUnknownAction indicates an action outside the fixed set.
var ErrUnknownAction = errors.New("UNKNOWN_ACTION")

const restoreBody = "<?xml version='1.0' encoding='UTF-8'?>\n" +
	"<soap:Envelope xmlns:soap='http://schemas.xmlsoap.org/soap/envelope/' " +
	"xmlns:xsd='http://www.w3.org/2001/XMLSchema' " +
	"xmlns:xsi='http://www.w3.org/2001/XMLSchema-instance'>\n" +
	"<soap:Body>\n" +
	"<RestoreOriginalControllerDevice><a>1</a><b>2</b>" +
	"</RestoreOriginalControllerDevice>\n" +
	"</soap:Body>\n" +
	"</soap:Envelope>"

const injectBody = "<?xml version='1.0' encoding='UTF-8'?> " +
	"<soap:Envelope xmlns:soap='http://schemas.xmlsoap.org/soap/envelope/' " +
	"xmlns:xsd='http://www.w3.org/2001/XMLSchema' " +
	"xmlns:xsi='http://www.w3.org/2001/XMLSchema-instance'> " +
	"<soap:Body> " +
	"<InjectUAVControllerInterface><a>1</a><b>2</b>" +
	"</InjectUAVControllerInterface> " +
	"</soap:Body> " +
	"</soap:Envelope>"

// exchangeBodyFormat carries exactly 12 positional placeholders, one per
// channel, each rendered with 4 digits after the decimal point.
const exchangeBodyFormat = "<?xml version='1.0' encoding='UTF-8'?> " +
	"<soap:Envelope xmlns:soap='http://schemas.xmlsoap.org/soap/envelope/' " +
	"xmlns:xsd='http://www.w3.org/2001/XMLSchema' " +
	"xmlns:xsi='http://www.w3.org/2001/XMLSchema-instance'> " +
	"<soap:Body> " +
	"<ExchangeData> " +
	"<pControlInputs> " +
	"<m-selectedChannels>4095</m-selectedChannels> " +
	"<m-channelValues-0to1> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"<item>%.4f</item> " +
	"</m-channelValues-0to1> " +
	"</pControlInputs> " +
	"</ExchangeData> " +
	"</soap:Body> " +
	"</soap:Envelope>"

// Encode returns the static request body for the session-restore and
// session-inject actions. ExchangeData carries control values and must go
// through EncodeExchangeData.
func Encode(action Action) ([]byte, error) {
	switch action {
	case ActionRestore:
		return []byte(restoreBody), nil
	case ActionInject:
		return []byte(injectBody), nil
	case ActionExchange:
		return nil, fmt.Errorf("%w: ExchangeData requires a control vector", ErrUnknownAction)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// EncodeExchangeData builds the ExchangeData body from a normalized control
// vector in channel order 0..11. Vectors of any other length are rejected
// before transport I/O.
func EncodeExchangeData(controls []float64) ([]byte, error) {
	if len(controls) != telemetry.ChannelCount {
		return nil, fmt.Errorf("%w: got %d values, want %d",
			ErrBadVectorLength, len(controls), telemetry.ChannelCount)
	}

	args := make([]interface{}, len(controls))
	for i, v := range controls {
		args[i] = v
	}
	return []byte(fmt.Sprintf(exchangeBodyFormat, args...)), nil
}
