package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shoppingcart/lib/mypublisher"
	"github.com/MarcGrol/shoppingcart/lib/mystore"
	"github.com/MarcGrol/shoppingcart/lib/mytime"
	"github.com/MarcGrol/shoppingcart/lib/myuuid"
	"github.com/MarcGrol/shoppingcart/services/cartevents"
	"github.com/MarcGrol/shoppingcart/services/catalog"
)

func TestCartService(t *testing.T) {

	t.Run("Create new cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, _, nower, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("123")
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartCreated{
			CartUID: "123",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/cart", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"UID": "123"`)

		cart, exists, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, mytime.ExampleTime, cart.CreatedAt)
		assert.Empty(t, cart.Lines)
	})

	t.Run("List carts newest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, _, _, _, _ := setup(t, ctrl)

		// given
		err := storer.Put(c, "old", Cart{UID: "old", CreatedAt: mytime.ExampleTime})
		assert.NoError(t, err)
		err = storer.Put(c, "new", Cart{UID: "new", CreatedAt: mytime.ExampleTime.Add(time.Hour)})
		assert.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.True(t, strings.Index(got, `"UID": "new"`) < strings.Index(got, `"UID": "old"`))
	})

	t.Run("Get cart details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, _, _, _, _ := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", cartWithSocks(1))
		assert.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"Title": "Running socks"`)
	})

	t.Run("Get cart that does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/unknown", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func TestAddProduct(t *testing.T) {

	t.Run("Add product to empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, nower, _, publisher := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", Cart{UID: "123", CreatedAt: mytime.ExampleTime})
		assert.NoError(t, err)
		catalogMock.EXPECT().GetProduct(gomock.Any(), "1").Return(socks, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemAdded{
			CartUID:    "123",
			ProductUID: "1",
			Quantity:   2,
		}).Return(nil)

		// when
		response := doAddProduct(t, router, "123", "productUid=1&quantity=2")

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"Subtotal": 55`)

		cart, _, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.Equal(t, 55.0, cart.Lines[0].Subtotal)
		assert.NotNil(t, cart.LastModified)
	})

	t.Run("Add same product twice accumulates on one line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, nower, _, publisher := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", cartWithSocks(1))
		assert.NoError(t, err)
		catalogMock.EXPECT().GetProduct(gomock.Any(), "1").Return(socks, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemAdded{
			CartUID:    "123",
			ProductUID: "1",
			Quantity:   2,
		}).Return(nil)

		// when
		response := doAddProduct(t, router, "123", "productUid=1&quantity=2")

		// then
		assert.Equal(t, 200, response.Code)

		cart, _, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		assert.Equal(t, 82.5, cart.Lines[0].Subtotal)
	})

	t.Run("Quantity defaults to one when omitted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, nower, _, publisher := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", Cart{UID: "123", CreatedAt: mytime.ExampleTime})
		assert.NoError(t, err)
		catalogMock.EXPECT().GetProduct(gomock.Any(), "1").Return(socks, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemAdded{
			CartUID:    "123",
			ProductUID: "1",
			Quantity:   1,
		}).Return(nil)

		// when
		response := doAddProduct(t, router, "123", "productUid=1")

		// then
		assert.Equal(t, 200, response.Code)

		cart, _, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Unavailable product leaves cart untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, _, _, _ := setup(t, ctrl)

		// given: no publish and no store mutation may happen
		err := storer.Put(c, "123", cartWithSocks(1))
		assert.NoError(t, err)
		catalogMock.EXPECT().GetProduct(gomock.Any(), "2").Return(bike, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "2").Return(false, nil)

		// when
		response := doAddProduct(t, router, "123", "productUid=2&quantity=1")

		// then
		assert.Equal(t, 503, response.Code)
		assert.Contains(t, response.Body.String(), "Carbon racing bike")

		cart, _, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, "1", cart.Lines[0].ProductUID)
		assert.Nil(t, cart.LastModified)
	})

	t.Run("Failing product lookup aborts the add", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, _, _, _ := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", Cart{UID: "123", CreatedAt: mytime.ExampleTime})
		assert.NoError(t, err)
		catalogMock.EXPECT().GetProduct(gomock.Any(), "1").
			Return(catalog.Product{}, fmt.Errorf("remote returned status 500"))

		// when
		response := doAddProduct(t, router, "123", "productUid=1&quantity=1")

		// then
		assert.Equal(t, 500, response.Code)

		cart, _, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.Empty(t, cart.Lines)
	})

	t.Run("Quantity below one is rejected without touching the catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		response := doAddProduct(t, router, "123", "productUid=1&quantity=0")

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Missing productUid is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		response := doAddProduct(t, router, "123", "quantity=1")

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Add to cart that does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, catalogMock, _, _, _ := setup(t, ctrl)

		// given: the product is checked before the cart is fetched
		catalogMock.EXPECT().GetProduct(gomock.Any(), "1").Return(socks, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)

		// when
		response := doAddProduct(t, router, "unknown", "productUid=1&quantity=1")

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func TestSummaryAndValidation(t *testing.T) {

	t.Run("Summary applies discount above the threshold", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, _, _, _, _ := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", Cart{UID: "123", CreatedAt: mytime.ExampleTime, Lines: []CartLine{
			{ProductUID: "9", Title: "Rowing machine", UnitPriceWithTax: 310.0, Quantity: 2, Subtotal: 620.0},
		}})
		assert.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/123/summary", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, `"TotalItems": 2`)
		assert.Contains(t, got, `"Subtotal": 620`)
		assert.Contains(t, got, `"Discount": 31`)
		assert.Contains(t, got, `"Total": 589`)
	})

	t.Run("Validation partitions lines on availability", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, _, _, _ := setup(t, ctrl)

		// given
		cart := cartWithSocks(1)
		cart.upsertLine(bike, 1)
		err := storer.Put(c, "123", cart)
		assert.NoError(t, err)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "2").Return(false, nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/123/validation", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, `"Valid": false`)
		assert.Contains(t, got, `"LineCount": 2`)
	})

	t.Run("Validation of all-available cart is valid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, catalogMock, _, _, _ := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", cartWithSocks(2))
		assert.NoError(t, err)
		catalogMock.EXPECT().IsAvailable(gomock.Any(), "1").Return(true, nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/123/validation", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"Valid": true`)
	})
}

func TestClearCart(t *testing.T) {

	t.Run("Clear removes all lines", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, storer, _, nower, _, publisher := setup(t, ctrl)

		// given
		err := storer.Put(c, "123", cartWithSocks(3))
		assert.NoError(t, err)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartCleared{
			CartUID: "123",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodDelete, "/cart/123/items", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)

		cart, exists, err := storer.Get(c, "123")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Empty(t, cart.Lines)
	})

	t.Run("Clear cart that does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodDelete, "/cart/unknown/items", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func cartWithSocks(quantity int) Cart {
	cart := Cart{UID: "123", CreatedAt: mytime.ExampleTime}
	cart.upsertLine(socks, quantity)
	return cart
}

func doAddProduct(t *testing.T, router *mux.Router, cartUID string, form string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodPost, "/cart/"+cartUID+"/items", strings.NewReader(form))
	assert.NoError(t, err)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Cart], *catalog.MockCatalogLookup, *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()

	storer, _, err := mystore.New[Cart](c)
	assert.NoError(t, err)
	catalogMock := catalog.NewMockCatalogLookup(ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	publisher.EXPECT().CreateTopic(gomock.Any(), cartevents.TopicName).Return(nil)

	sut := NewService(storer, catalogMock, publisher, nower, uuider)
	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer, catalogMock, nower, uuider, publisher
}
