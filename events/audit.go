package events

import (
	"fmt"

	"github.com/ch0002ic/creatorcoin-ai/exception"
	"github.com/ch0002ic/creatorcoin-ai/logx"
)

// AuditSubscriber consumes every published event and writes one audit log
// line per event. The service starts one instance at boot so operators get
// a flat trail of applied operations and rejections.
type AuditSubscriber struct {
	bus *EventBus
	id  SubscriberID
	ch  chan LedgerEvent
}

// StartAuditSubscriber subscribes to the bus and drains events on a
// background goroutine until Stop is called.
func StartAuditSubscriber(bus *EventBus) *AuditSubscriber {
	id, ch := bus.Subscribe()
	as := &AuditSubscriber{
		bus: bus,
		id:  id,
		ch:  ch,
	}
	exception.SafeGo("audit-subscriber", func() {
		as.run()
	})
	return as
}

func (as *AuditSubscriber) run() {
	for event := range as.ch {
		switch e := event.(type) {
		case *TransactionApplied:
			logx.Info("AUDIT", fmt.Sprintf("applied | kind=%s | tx_id=%s", e.Kind(), e.TxID()))
		case *OperationRejected:
			logx.Warn("AUDIT", fmt.Sprintf("rejected | kind=%s | code=%s | message=%s", e.Kind(), e.Code(), e.Message()))
		case *StakeStatusChanged:
			logx.Info("AUDIT", fmt.Sprintf("stake | stake_id=%s | address=%s | status=%s | tx_id=%s", e.StakeID(), e.Address(), e.Status(), e.TxID()))
		case *FundingGranted:
			logx.Info("AUDIT", fmt.Sprintf("funding | address=%s | amount=%s | tx_id=%s", e.Address(), e.Amount(), e.TxID()))
		default:
			logx.Info("AUDIT", fmt.Sprintf("event | type=%s | tx_id=%s", event.Type(), event.TxID()))
		}
	}
}

// Stop unsubscribes from the bus, which closes the channel and ends the
// drain goroutine.
func (as *AuditSubscriber) Stop() {
	as.bus.Unsubscribe(as.id)
}
