package notify

import (
	"fmt"
	"time"
)

// Channel names used as keys in a Result map.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelAdmin = "admin"
)

// Outcome is the terminal result of one channel delivery. Channel clients
// and the retry wrapper never return errors past their boundary; every
// path resolves to an Outcome.
type Outcome struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OK builds a successful outcome carrying the transport's message id.
func OK(messageID string) Outcome {
	return Outcome{Success: true, MessageID: messageID}
}

// Errf builds a failed outcome with a formatted error string.
func Errf(format string, args ...any) Outcome {
	return Outcome{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Result aggregates per-channel outcomes for one domain event. A channel
// that was skipped (disabled, or no contact info) is absent from the map.
type Result map[string]Outcome

// Features is the immutable process-wide delivery configuration snapshot.
// Senders consult DryRun at the point of each send, not at construction,
// so a rebuilt snapshot takes effect without recreating clients.
type Features struct {
	EmailEnabled  bool
	SMSEnabled    bool
	DryRun        bool
	RetryAttempts int
	RetryDelay    time.Duration
	SendTimeout   time.Duration
}
