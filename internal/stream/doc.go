// Package stream holds the two duplex WebSocket connections a live session
// talks to: the visual analysis stream and the audio/dialogue stream.
//
// Each connection serializes writes, exposes a blocking Read that returns the
// next decoded server message, and classifies failures with the services
// error markers. Malformed frames surface as decode errors so callers can
// drop them and keep reading.
package stream
