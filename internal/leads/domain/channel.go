package domain

// Channel identifies the conversation channel an inbound event arrived on.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelVoice    Channel = "voice"
	ChannelSocial   Channel = "social"
)

// Channels lists all channels in their fixed resolution order. The order is
// the tie-break when two channels report bookings with identical
// last-interaction timestamps.
var Channels = []Channel{ChannelWeb, ChannelWhatsApp, ChannelVoice, ChannelSocial}

// IsKnownChannel reports whether ch is a supported channel.
func IsKnownChannel(ch Channel) bool {
	switch ch {
	case ChannelWeb, ChannelWhatsApp, ChannelVoice, ChannelSocial:
		return true
	}
	return false
}

// Sender identifies who authored a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
	SenderSystem   Sender = "system"
)

// IsKnownSender reports whether s is a supported message sender.
func IsKnownSender(s Sender) bool {
	switch s {
	case SenderCustomer, SenderAgent, SenderSystem:
		return true
	}
	return false
}
