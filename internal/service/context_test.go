package service_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/service"
)

var _ = Describe("ContextAssembler", func() {
	var (
		ctx       context.Context
		messages  *mockMessageStore
		assembler service.ContextAssembler
	)

	BeforeEach(func() {
		ctx = context.Background()
		messages = &mockMessageStore{}
		assembler = service.NewContextAssembler(messages)
	})

	seed := func(conversationID int64, n int) {
		for i := 0; i < n; i++ {
			direction := model.DirectionInbound
			if i%2 == 1 {
				direction = model.DirectionOutbound
			}
			msg := model.Message{
				ConversationID: conversationID,
				Direction:      direction,
				Content:        fmt.Sprintf("message %d", i+1),
			}
			Expect(messages.Create(ctx, &msg)).To(Succeed())
		}
	}

	It("returns turns in chronological order", func() {
		seed(1, 4)

		turns, err := assembler.BuildContext(ctx, 1, 10, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(HaveLen(4))
		Expect(turns[0].Content).To(Equal("message 1"))
		Expect(turns[3].Content).To(Equal("message 4"))
		Expect(turns[0].Role).To(Equal(model.RoleUser))
		Expect(turns[1].Role).To(Equal(model.RoleAssistant))
	})

	It("never returns more than the window size", func() {
		seed(1, 25)

		turns, err := assembler.BuildContext(ctx, 1, 10, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(HaveLen(10))
		// The window keeps the most recent messages.
		Expect(turns[9].Content).To(Equal("message 25"))
		Expect(turns[0].Content).To(Equal("message 16"))
	})

	It("excludes the requested message without shrinking the window", func() {
		seed(1, 12)
		lastID := messages.created[len(messages.created)-1].ID

		turns, err := assembler.BuildContext(ctx, 1, 10, lastID)

		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(HaveLen(10))
		Expect(turns[9].Content).To(Equal("message 11"))
		Expect(turns[0].Content).To(Equal("message 2"))
	})

	It("returns an empty window for a fresh conversation", func() {
		turns, err := assembler.BuildContext(ctx, 42, 10, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(BeEmpty())
	})

	It("propagates store errors", func() {
		messages.listRecentFn = func(context.Context, int64, int32) ([]model.Message, error) {
			return nil, errors.New("connection refused")
		}

		_, err := assembler.BuildContext(ctx, 1, 10, 0)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("connection refused"))
	})
})
