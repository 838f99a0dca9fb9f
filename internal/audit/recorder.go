package audit

import (
	"context"
	"log"
	"time"
)

// publisher is what Recorder needs from the broker side; *Publisher
// satisfies it and tests substitute fakes.
type publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Recorder implements auth.Auditor on top of the broker publisher.  When
// no broker is configured, or publishing fails, the record goes to the
// process log instead -- the fallback channel from the error-handling
// policy.  Record never returns an error.
type Recorder struct {
	pub publisher
}

// NewRecorder wraps a publisher; pub may be nil for log-only operation.
func NewRecorder(pub *Publisher) *Recorder {
	if pub == nil {
		return &Recorder{}
	}
	return &Recorder{pub: pub}
}

// Record builds the event and hands it to the broker.  The publish uses
// its own timeout, detached from the request context, so a slow broker
// cannot stall the response either.
func (r *Recorder) Record(_ context.Context, action, module string, userID uint64, ip, outcome, message string) {
	ev := Event{
		Action:  action,
		Module:  module,
		UserID:  userID,
		IP:      ip,
		Outcome: outcome,
		Message: message,
		At:      time.Now().UTC(),
	}
	if r.pub == nil {
		log.Printf("audit: %s/%s user=%d ip=%s outcome=%s msg=%q", action, module, userID, ip, outcome, message)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.pub.Publish(ctx, ev); err != nil {
		log.Printf("audit: fallback log: %s/%s user=%d ip=%s outcome=%s msg=%q", action, module, userID, ip, outcome, message)
	}
}
