package cartactivity

import (
	"context"
	"fmt"

	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/myhttp"
	"github.com/MarcGrol/shoppingcart/lib/mylog"
	"github.com/MarcGrol/shoppingcart/services/cartevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.pubsub.Subscribe(c, cartevents.TopicName, myhttp.GuessHostnameWithScheme()+"/cartactivity/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCartCreated(c context.Context, topic string, event cartevents.CartCreated) error {
	return s.record(c, event.CartUID, event.GetEventTypeName(), "cart created")
}

func (s *service) OnCartItemAdded(c context.Context, topic string, event cartevents.CartItemAdded) error {
	return s.record(c, event.CartUID, event.GetEventTypeName(),
		fmt.Sprintf("%d x product %s added", event.Quantity, event.ProductUID))
}

func (s *service) OnCartCleared(c context.Context, topic string, event cartevents.CartCleared) error {
	return s.record(c, event.CartUID, event.GetEventTypeName(), "cart cleared")
}

func (s *service) record(c context.Context, cartUID string, eventType string, detail string) error {
	record := ActivityRecord{
		UID:       s.uuider.Create(),
		CartUID:   cartUID,
		EventType: eventType,
		Detail:    detail,
		CreatedAt: s.nower.Now(),
	}

	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Webhook: %s on cart %s", eventType, cartUID)

	err := s.activityStore.Put(c, record.UID, record)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing activity-record %s: %s", record.UID, err))
	}

	return nil
}
