package notify

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Channels lists every channel in dispatch order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelWhatsApp}
}

// Status is the result of one (recipient, channel) attempt.
type Status string

const (
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
	StatusSkipped   Status = "SKIPPED"
)

// Outcome records one (recipient, channel) pair with enough context for a
// human to diagnose it. Outcomes are aggregated into the run summary and
// never persisted.
type Outcome struct {
	Recipient string
	Channel   Channel
	Status    Status
	Reason    string
}
