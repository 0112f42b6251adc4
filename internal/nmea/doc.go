// Package nmea turns raw receiver bytes into typed NMEA 0183 messages.
//
// The pipeline has three stages:
//   - Framer assembles $...*HH sentences from arbitrary byte fragments
//   - ParseSentence validates the checksum and tokenizes the payload
//   - Decode dispatches on the sentence code to a typed message variant
//
// Reader ties the stages to a ByteSource and owns the read loop. One
// goroutine owns the whole pipeline; nothing here locks.
package nmea
