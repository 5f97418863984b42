package cartevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/myevents"
)

const (
	TopicName         = "cart"
	cartCreatedName   = TopicName + ".created"
	cartItemAddedName = TopicName + ".item.added"
	cartClearedName   = TopicName + ".cleared"
)

type CartEventService interface {
	Subscribe(c context.Context) error
	OnCartCreated(c context.Context, topic string, event CartCreated) error
	OnCartItemAdded(c context.Context, topic string, event CartItemAdded) error
	OnCartCleared(c context.Context, topic string, event CartCleared) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CartEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case cartCreatedName:
		{
			event := CartCreated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartCreated(c, envelope.Topic, event)
		}
	case cartItemAddedName:
		{
			event := CartItemAdded{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartItemAdded(c, envelope.Topic, event)
		}
	case cartClearedName:
		{
			event := CartCleared{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartCleared(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("event %s not supported", envelope.EventTypeName))
	}
}

type CartCreated struct {
	CartUID string
}

func (e CartCreated) GetEventTypeName() string {
	return cartCreatedName
}

func (e CartCreated) GetAggregateName() string {
	return e.CartUID
}

type CartItemAdded struct {
	CartUID    string
	ProductUID string
	Quantity   int
}

func (e CartItemAdded) GetEventTypeName() string {
	return cartItemAddedName
}

func (e CartItemAdded) GetAggregateName() string {
	return e.CartUID
}

type CartCleared struct {
	CartUID string
}

func (e CartCleared) GetEventTypeName() string {
	return cartClearedName
}

func (e CartCleared) GetAggregateName() string {
	return e.CartUID
}
