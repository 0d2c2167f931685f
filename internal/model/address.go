package model

import (
	"regexp"
	"strings"
)

// Channel marks whether an address uses plain SMS or the WhatsApp overlay
// network. The tag affects outbound formatting only: a WhatsApp destination
// must be addressed as "whatsapp:+E164" and replied to from a
// "whatsapp:"-prefixed sender number.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

const whatsappPrefix = "whatsapp:"

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// Address is a carrier address split into its normalized E.164 number and
// the channel it arrived on. Two addresses are the same conversation partner
// when their Numbers are equal, regardless of channel.
type Address struct {
	Number  string // normalized E.164, overlay prefix stripped
	Channel Channel
}

// ParseAddress splits a raw carrier address into number and channel tag.
// It accepts "+15551230000" and "whatsapp:+15551230000" forms.
func ParseAddress(raw string) Address {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, whatsappPrefix); ok {
		return Address{Number: rest, Channel: ChannelWhatsApp}
	}
	return Address{Number: raw, Channel: ChannelSMS}
}

// Valid reports whether the normalized number is well-formed E.164.
func (a Address) Valid() bool {
	return e164Pattern.MatchString(a.Number)
}

// String renders the address in the carrier's wire format for its channel.
func (a Address) String() string {
	if a.Channel == ChannelWhatsApp {
		return whatsappPrefix + a.Number
	}
	return a.Number
}

// OnChannel returns the same number re-tagged onto the given channel.
// Used to format the gateway's own sender number to match the destination.
func (a Address) OnChannel(ch Channel) Address {
	return Address{Number: a.Number, Channel: ch}
}
