package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lewis.chat/gateway/internal/model"
)

var _ = Describe("Address", func() {
	Describe("ParseAddress", func() {
		It("parses a plain number onto the sms channel", func() {
			addr := model.ParseAddress("+15551230000")
			Expect(addr.Number).To(Equal("+15551230000"))
			Expect(addr.Channel).To(Equal(model.ChannelSMS))
		})

		It("strips the whatsapp prefix and tags the channel", func() {
			addr := model.ParseAddress("whatsapp:+15551230000")
			Expect(addr.Number).To(Equal("+15551230000"))
			Expect(addr.Channel).To(Equal(model.ChannelWhatsApp))
		})

		It("trims surrounding whitespace", func() {
			addr := model.ParseAddress("  +15551230000 ")
			Expect(addr.Number).To(Equal("+15551230000"))
		})

		It("equates the same number across channels", func() {
			plain := model.ParseAddress("+15551230000")
			overlay := model.ParseAddress("whatsapp:+15551230000")
			Expect(plain.Number).To(Equal(overlay.Number))
		})
	})

	Describe("Valid", func() {
		It("accepts E.164 numbers", func() {
			Expect(model.ParseAddress("+15551230000").Valid()).To(BeTrue())
			Expect(model.ParseAddress("whatsapp:+447911123456").Valid()).To(BeTrue())
		})

		It("rejects malformed numbers", func() {
			for _, raw := range []string{"", "15551230000", "+0123", "+1 555 123", "not-a-number", "whatsapp:"} {
				Expect(model.ParseAddress(raw).Valid()).To(BeFalse(), "expected %q to be invalid", raw)
			}
		})
	})

	Describe("String", func() {
		It("renders the wire format for each channel", func() {
			Expect(model.Address{Number: "+15551230000", Channel: model.ChannelSMS}.String()).
				To(Equal("+15551230000"))
			Expect(model.Address{Number: "+15551230000", Channel: model.ChannelWhatsApp}.String()).
				To(Equal("whatsapp:+15551230000"))
		})

		It("round-trips through ParseAddress", func() {
			for _, raw := range []string{"+15551230000", "whatsapp:+15551230000"} {
				Expect(model.ParseAddress(raw).String()).To(Equal(raw))
			}
		})
	})

	Describe("OnChannel", func() {
		It("re-tags the number onto the destination's channel", func() {
			from := model.ParseAddress("+15550001111")
			Expect(from.OnChannel(model.ChannelWhatsApp).String()).To(Equal("whatsapp:+15550001111"))
			Expect(from.OnChannel(model.ChannelSMS).String()).To(Equal("+15550001111"))
		})
	})
})

var _ = Describe("TurnFromMessage", func() {
	It("maps inbound to user and outbound to assistant", func() {
		in := model.Message{Direction: model.DirectionInbound, Content: "hello"}
		out := model.Message{Direction: model.DirectionOutbound, Content: "hi there"}

		Expect(model.TurnFromMessage(in)).To(Equal(model.Turn{Role: model.RoleUser, Content: "hello"}))
		Expect(model.TurnFromMessage(out)).To(Equal(model.Turn{Role: model.RoleAssistant, Content: "hi there"}))
	})

	It("passes placeholder content through verbatim", func() {
		msg := model.Message{Direction: model.DirectionInbound, Content: model.MediaPlaceholder}
		Expect(model.TurnFromMessage(msg).Content).To(Equal(model.MediaPlaceholder))
	})
})
