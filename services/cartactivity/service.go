package cartactivity

import (
	"time"

	"github.com/MarcGrol/shoppingcart/lib/mylog"
	"github.com/MarcGrol/shoppingcart/lib/mypubsub"
	"github.com/MarcGrol/shoppingcart/lib/mystore"
	"github.com/MarcGrol/shoppingcart/lib/mytime"
	"github.com/MarcGrol/shoppingcart/lib/myuuid"
)

// ActivityRecord is one observed cart event, kept as an audit-trail.
type ActivityRecord struct {
	UID       string
	CartUID   string
	EventType string
	Detail    string
	CreatedAt time.Time
}

type service struct {
	activityStore mystore.Store[ActivityRecord]
	pubsub        mypubsub.PubSub
	nower         mytime.Nower
	uuider        myuuid.UUIDer
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[ActivityRecord], pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) *service {
	return &service{
		activityStore: store,
		pubsub:        pubsub,
		nower:         nower,
		uuider:        uuider,
		logger:        mylog.New("cartactivity"),
	}
}
