package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/service"
	"lewis.chat/gateway/internal/store"
)

var _ = Describe("ConversationService", func() {
	var (
		ctx           context.Context
		conversations *mockConversationStore
		messages      *mockMessageStore
		svc           service.ConversationService
	)

	BeforeEach(func() {
		ctx = context.Background()
		conversations = &mockConversationStore{}
		messages = &mockMessageStore{}
		svc = service.NewConversationService(conversations, messages)
	})

	Describe("History", func() {
		It("returns messages in chronological order", func() {
			for _, content := range []string{"first", "second", "third"} {
				msg := model.Message{ConversationID: 1, Direction: model.DirectionInbound, Content: content}
				Expect(messages.Create(ctx, &msg)).To(Succeed())
			}

			conv, history, err := svc.History(ctx, "+15551230000", 50)

			Expect(err).NotTo(HaveOccurred())
			Expect(conv.PhoneNumber).To(Equal("+15551230000"))
			Expect(history).To(HaveLen(3))
			Expect(history[0].Content).To(Equal("first"))
			Expect(history[2].Content).To(Equal("third"))
		})

		It("resolves whatsapp-tagged addresses to the bare number", func() {
			var lookedUp string
			conversations.getByPhoneFn = func(_ context.Context, phoneNumber string) (*model.Conversation, error) {
				lookedUp = phoneNumber
				return &model.Conversation{ID: 1, PhoneNumber: phoneNumber}, nil
			}

			_, _, err := svc.History(ctx, "whatsapp:+15551230000", 10)

			Expect(err).NotTo(HaveOccurred())
			Expect(lookedUp).To(Equal("+15551230000"))
		})

		It("does not create a conversation for an unknown sender", func() {
			conversations.getByPhoneFn = func(context.Context, string) (*model.Conversation, error) {
				return nil, store.ErrNotFound
			}

			_, _, err := svc.History(ctx, "+15559999999", 10)
			Expect(err).To(MatchError(service.ErrNotFound))
		})

		It("rejects malformed addresses", func() {
			_, _, err := svc.History(ctx, "not-a-number", 10)
			Expect(err).To(MatchError(service.ErrValidation))
		})

		It("caps the history at the requested limit", func() {
			for i := 0; i < 8; i++ {
				msg := model.Message{ConversationID: 1, Direction: model.DirectionInbound, Content: "m"}
				Expect(messages.Create(ctx, &msg)).To(Succeed())
			}

			_, history, err := svc.History(ctx, "+15551230000", 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(5))
		})
	})

	Describe("List", func() {
		It("passes a sane default limit for out-of-range values", func() {
			var gotLimit int32
			conversations.listFn = func(_ context.Context, limit int32) ([]model.ConversationSummary, error) {
				gotLimit = limit
				return nil, nil
			}

			_, err := svc.List(ctx, -3)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(int32(20)))
		})

		It("returns the store's summaries", func() {
			last := "see you!"
			conversations.listFn = func(context.Context, int32) ([]model.ConversationSummary, error) {
				return []model.ConversationSummary{
					{
						Conversation: model.Conversation{ID: 1, PhoneNumber: "+15551230000"},
						MessageCount: 7,
						LastMessage:  &last,
					},
				}, nil
			}

			summaries, err := svc.List(ctx, 20)

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(1))
			Expect(summaries[0].MessageCount).To(Equal(int64(7)))
			Expect(*summaries[0].LastMessage).To(Equal("see you!"))
		})
	})
})
