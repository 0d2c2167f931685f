package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lewis.chat/gateway/internal/http/handler"
	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/service"
)

var _ = Describe("ConversationHandler", func() {
	var (
		conversations *mockConversationService
		router        *gin.Engine
	)

	BeforeEach(func() {
		conversations = &mockConversationService{}
		router = gin.New()
		h := handler.NewConversationHandler(conversations)
		router.GET("/api/v1/conversations", h.List)
		router.GET("/api/v1/conversations/:phone", h.History)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]any {
		var body map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("List", func() {
		It("passes the limit through and returns summaries", func() {
			var gotLimit int32
			conversations.listFn = func(_ context.Context, limit int32) ([]model.ConversationSummary, error) {
				gotLimit = limit
				return []model.ConversationSummary{
					{Conversation: model.Conversation{ID: 7, PhoneNumber: "+15551230000"}, MessageCount: 4},
				}, nil
			}

			rec := get("/api/v1/conversations?limit=3")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(3)))
			Expect(decode(rec)["data"].([]any)).To(HaveLen(1))
		})

		It("falls back to the default limit on garbage input", func() {
			var gotLimit int32
			conversations.listFn = func(_ context.Context, limit int32) ([]model.ConversationSummary, error) {
				gotLimit = limit
				return nil, nil
			}

			rec := get("/api/v1/conversations?limit=banana")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(20)))
		})
	})

	Describe("History", func() {
		It("returns the conversation with its messages", func() {
			conversations.historyFn = func(_ context.Context, address string, limit int32) (*model.Conversation, []model.Message, error) {
				Expect(address).To(Equal("+15551230000"))
				Expect(limit).To(Equal(int32(50)))
				return &model.Conversation{ID: 7, PhoneNumber: address},
					[]model.Message{{ID: 1, ConversationID: 7, Direction: model.DirectionInbound, Content: "hello"}},
					nil
			}

			rec := get("/api/v1/conversations/+15551230000")

			Expect(rec.Code).To(Equal(http.StatusOK))
			data := decode(rec)["data"].(map[string]any)
			Expect(data["messages"].([]any)).To(HaveLen(1))
		})

		It("maps a missing conversation to 404", func() {
			conversations.historyFn = func(context.Context, string, int32) (*model.Conversation, []model.Message, error) {
				return nil, nil, service.ErrNotFound
			}

			rec := get("/api/v1/conversations/+15559998888")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decode(rec)["success"]).To(BeFalse())
		})

		It("maps a malformed address to 400", func() {
			conversations.historyFn = func(context.Context, string, int32) (*model.Conversation, []model.Message, error) {
				return nil, nil, service.ErrValidation
			}

			rec := get("/api/v1/conversations/junk")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
