package nmea

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Sentence is one framed, checksum-validated NMEA sentence.
type Sentence struct {
	Talker string // talker ID, e.g. "GP", "GN"
	Code   string // sentence code, e.g. "RMC"
	// Fields is the comma-split payload (excluding $ and checksum).
	// Fields[0] is the talker+code word. Empty fields stay empty: NMEA
	// grammars use positional absence to mean "not available".
	Fields []string
	Raw    string // the sentence as framed, including "$" and "*HH"
}

// Checksum returns the XOR of all payload bytes (everything between '$' and '*').
func Checksum(payload string) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// ParseSentence validates and tokenizes one framed sentence. The received
// checksum is the two hex digits after the final '*', compared
// case-insensitively against the computed XOR.
func ParseSentence(raw string) (Sentence, error) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, "$") {
		return Sentence{}, fmt.Errorf("nmea: missing '$'")
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return Sentence{}, fmt.Errorf("nmea: missing checksum")
	}
	payload := line[1:star]
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return Sentence{}, fmt.Errorf("nmea: short checksum")
	}
	want, err := hex.DecodeString(ck[:2])
	if err != nil || len(want) != 1 {
		return Sentence{}, fmt.Errorf("nmea: bad checksum")
	}
	if Checksum(payload) != want[0] {
		return Sentence{}, fmt.Errorf("nmea: checksum mismatch")
	}

	parts := strings.Split(payload, ",")
	typeField := parts[0]
	if len(typeField) < 3 {
		return Sentence{}, fmt.Errorf("nmea: short type")
	}
	// Accept GPxxx/GNxxx etc: the last 3 chars are the code, the rest the
	// talker, so talker synonyms share one grammar.
	talker := ""
	code := typeField
	if len(typeField) > 3 {
		talker = strings.ToUpper(typeField[:len(typeField)-3])
		code = typeField[len(typeField)-3:]
	}
	return Sentence{
		Talker: talker,
		Code:   strings.ToUpper(code),
		Fields: parts,
		Raw:    line,
	}, nil
}
