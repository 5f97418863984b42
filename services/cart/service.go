package cart

import (
	"github.com/MarcGrol/shoppingcart/lib/mylog"
	"github.com/MarcGrol/shoppingcart/lib/mypublisher"
	"github.com/MarcGrol/shoppingcart/lib/mystore"
	"github.com/MarcGrol/shoppingcart/lib/mytime"
	"github.com/MarcGrol/shoppingcart/lib/myuuid"
	"github.com/MarcGrol/shoppingcart/services/catalog"
)

type service struct {
	cartStore mystore.Store[Cart]
	catalog   catalog.CatalogLookup
	publisher mypublisher.Publisher
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Cart], catalogLookup catalog.CatalogLookup, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer) *service {
	return &service{
		cartStore: store,
		catalog:   catalogLookup,
		publisher: publisher,
		nower:     nower,
		uuider:    uuider,
		logger:    mylog.New("cart"),
	}
}
