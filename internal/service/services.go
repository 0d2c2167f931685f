package service

import (
	"lewis.chat/gateway/internal/admission"
	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/llm"
	"lewis.chat/gateway/internal/store"
)

// Services wires stores and external clients into the service layer.
type Services struct {
	stores  *store.Stores
	uow     store.UnitOfWork
	oracle  llm.Oracle
	gateway carrier.Gateway
	limiter *admission.Limiter
}

func NewServices(stores *store.Stores, uow store.UnitOfWork, oracle llm.Oracle, gateway carrier.Gateway, limiter *admission.Limiter) *Services {
	return &Services{
		stores:  stores,
		uow:     uow,
		oracle:  oracle,
		gateway: gateway,
		limiter: limiter,
	}
}

func (s *Services) Messages() MessageService {
	return NewMessageService(
		s.stores.Conversations(),
		s.stores.Messages(),
		s.uow,
		NewContextAssembler(s.stores.Messages()),
		s.oracle,
		s.gateway,
		s.limiter,
	)
}

func (s *Services) Conversations() ConversationService {
	return NewConversationService(s.stores.Conversations(), s.stores.Messages())
}

func (s *Services) Gateway() carrier.Gateway {
	return s.gateway
}
