package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/flight-control/fcc/internal/telemetry"
)

// ErrMalformedReply indicates a reply buffer that could not be parsed as XML,
// lacked the expected document structure, or carried a field that failed
// numeric coercion. The whole batch is rejected; no partial update reaches
// the state store.
var ErrMalformedReply = errors.New("MALFORMED_REPLY")

const channelValuesTag = "m-channelValues-0to1"

// xmlNode is a generic element-tree node. Tag matching is on local names, so
// the soap namespace prefixes never matter.
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// DecodeReply parses a raw reply buffer into a batch of telemetry updates.
//
// The transport wraps the XML document with framing that may leave the
// closing tags on a final partial line, so the parseable payload is rebuilt
// from the last two line-feed-separated segments of the buffer. The document
// is then navigated by fixed structure: the body's first child holds the
// channel-values group, the aircraft-state group and the notification group,
// in that order. Channel items map positionally to rcin0..rcin11; state and
// notification fields are matched against the tag vocabulary and unknown tags
// are dropped.
func DecodeReply(buf []byte) ([]telemetry.Update, error) {
	payload := rejoinTail(buf)

	var root xmlNode
	if err := xml.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if len(root.Children) == 0 || len(root.Children[0].Children) == 0 {
		return nil, fmt.Errorf("%w: missing response body", ErrMalformedReply)
	}
	groups := root.Children[0].Children[0].Children
	if len(groups) < 3 {
		return nil, fmt.Errorf("%w: expected 3 reply groups, got %d", ErrMalformedReply, len(groups))
	}

	var updates []telemetry.Update

	// Group 0: channel values. Only elements tagged "item" advance the
	// channel index; anything else inside the block is skipped.
	for _, block := range groups[0].Children {
		if block.XMLName.Local != channelValuesTag {
			continue
		}
		idx := 0
		for _, item := range block.Children {
			if item.XMLName.Local != "item" {
				continue
			}
			if idx < telemetry.ChannelCount {
				v, err := telemetry.Coerce(item.Text)
				if err != nil {
					return nil, fmt.Errorf("%w: channel %d: %v", ErrMalformedReply, idx, err)
				}
				updates = append(updates, telemetry.Update{Tag: telemetry.ChannelTag(idx), Value: v})
			}
			idx++
		}
	}

	// Groups 1 and 2: aircraft state and notifications, looked up by tag.
	for _, group := range groups[1:3] {
		for _, field := range group.Children {
			tag := field.XMLName.Local
			if !telemetry.KnownTag(tag) {
				continue
			}
			v, err := telemetry.Coerce(field.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedReply, tag, err)
			}
			updates = append(updates, telemetry.Update{Tag: tag, Value: v})
		}
	}

	return updates, nil
}

// rejoinTail concatenates the last two line-feed-separated segments of the
// buffer. This is a structural assumption about the transport's line
// wrapping, not general XML tolerance.
func rejoinTail(buf []byte) []byte {
	parts := bytes.Split(buf, []byte{'\n'})
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return bytes.Join(parts, nil)
}
