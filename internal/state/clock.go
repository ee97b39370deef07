package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var strokeSeq uint64

// nextStrokeID returns a unique stroke ID and the session-wide sequence number
// of the stroke, which only ever increases.
func nextStrokeID() (string, uint64) {
	return uuid.NewString(), atomic.AddUint64(&strokeSeq, 1)
}
