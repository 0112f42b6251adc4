// Package link16 decodes J-series tactical data link messages from raw
// datagrams. Every field on the wire is big-endian; the two-word header
// carries the message type and the total length in 16-bit words.
package link16

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrShortBuffer = errors.New("link16: short buffer")
	ErrTruncated   = errors.New("link16: truncated message")
)

// Message is one decoded J-series message.
type Message interface {
	MessageType() uint16
	String() string
}

type header struct {
	msgType  uint16
	msgWords uint16
}

func (h header) MessageType() uint16 { return h.msgType }

// Words reports the message length in 16-bit words including the header.
func (h header) Words() uint16 { return h.msgWords }

// J3Identity reports who a track is: platform, emitter category, status
// bits and the exercise it belongs to.
type J3Identity struct {
	header
	PlatformID      uint8
	EmitterCategory uint8
	SystemStatus    uint8
	ExerciseID      uint8
}

func (m J3Identity) String() string {
	return fmt.Sprintf("J3 platform=%d emitter=%d status=0x%02x exercise=%d",
		m.PlatformID, m.EmitterCategory, m.SystemStatus, m.ExerciseID)
}

// J12Position reports where a track is. Latitude and longitude arrive as
// signed microdegrees, speed as knots scaled by ten.
type J12Position struct {
	header
	LatMicroDeg int32
	LonMicroDeg int32
	AltFeet     int16
	SpeedDeciKt uint16
	HeadingDeg  uint16
}

func (m J12Position) LatDeg() float64 { return float64(m.LatMicroDeg) / 1e6 }

func (m J12Position) LonDeg() float64 { return float64(m.LonMicroDeg) / 1e6 }

func (m J12Position) SpeedKt() float64 { return float64(m.SpeedDeciKt) / 10 }

func (m J12Position) String() string {
	return fmt.Sprintf("J12 lat=%.6f lon=%.6f alt=%dft speed=%.1fkt heading=%d",
		m.LatDeg(), m.LonDeg(), m.AltFeet, m.SpeedKt(), m.HeadingDeg)
}

// Decode parses one J-series message from buf, typically a single UDP
// datagram. Trailing bytes past the declared length are ignored.
func Decode(buf []byte) (Message, error) {
	if len(buf) < 4 {
		return nil, ErrShortBuffer
	}
	hdr := header{
		msgType:  binary.BigEndian.Uint16(buf),
		msgWords: binary.BigEndian.Uint16(buf[2:]),
	}
	if int(hdr.msgWords)*2 > len(buf) {
		return nil, fmt.Errorf("%w: %d words declared, %d bytes held", ErrTruncated, hdr.msgWords, len(buf))
	}
	body := buf[4:]

	switch hdr.msgType {
	case 3:
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: J3 body", ErrShortBuffer)
		}
		return J3Identity{
			header:          hdr,
			PlatformID:      body[0],
			EmitterCategory: body[1],
			SystemStatus:    body[2],
			ExerciseID:      body[3],
		}, nil
	case 12:
		if len(body) < 14 {
			return nil, fmt.Errorf("%w: J12 body", ErrShortBuffer)
		}
		return J12Position{
			header:      hdr,
			LatMicroDeg: int32(binary.BigEndian.Uint32(body)),
			LonMicroDeg: int32(binary.BigEndian.Uint32(body[4:])),
			AltFeet:     int16(binary.BigEndian.Uint16(body[8:])),
			SpeedDeciKt: binary.BigEndian.Uint16(body[10:]),
			HeadingDeg:  binary.BigEndian.Uint16(body[12:]),
		}, nil
	default:
		return nil, fmt.Errorf("link16: unsupported message type %d", hdr.msgType)
	}
}
