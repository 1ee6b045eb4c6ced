/**
 * @description
 * This file defines the domain event envelope and the best-effort publish
 * helper. Events are emitted after the state change has been persisted; a
 * publish failure is logged and never rolls back the command.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Routing keys for the topic exchange.
const (
	EventLoanApproved   = "loan.approved"
	EventLoanDisbursed  = "loan.disbursed"
	EventLoanRepayment  = "loan.repayment"
	EventLoanClosed     = "loan.closed"
	EventLoanRejected   = "loan.rejected"
	EventSavingsPayment = "savings.payment"
	EventPaymentRecord  = "payment.recorded"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// publishEvent emits an event on the configured exchange. Best effort only.
func (s *Service) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := s.events.Publish(ctx, s.exchange, eventType, evt); err != nil {
		log.Printf("level=warn component=app msg=\"event publish failed\" event=%s err=%v", eventType, err)
	}
}
