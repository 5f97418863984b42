package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shoppingcart/lib/myhttpclient"
	"github.com/MarcGrol/shoppingcart/lib/myrandom"
)

const testEndpoint = "https://products.test"

var (
	cheapProductJSON     = []byte(`{"id":1,"title":"Running socks","price":25,"description":"Socks for running","category":"sports","image":"https://products.test/img/1.png"}`)
	expensiveProductJSON = []byte(`{"id":2,"title":"Carbon racing bike","price":999,"description":"A fast one","category":"sports","image":"https://products.test/img/2.png"}`)
)

func TestGetProduct(t *testing.T) {

	t.Run("Cheap product gets low tax-tier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(200, cheapProductJSON, nil)

		// when
		product, err := sut.GetProduct(ctx, "1")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "1", product.UID)
		assert.Equal(t, "Running socks", product.Title)
		assert.Equal(t, 25.0, product.BasePrice)
		assert.False(t, product.IsExpensive)
		assert.Equal(t, 27.5, product.PriceWithTax)
	})

	t.Run("Expensive product gets high tax-tier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/2", gomock.Nil()).
			Return(200, expensiveProductJSON, nil)

		// when
		product, err := sut.GetProduct(ctx, "2")

		// then
		assert.NoError(t, err)
		assert.True(t, product.IsExpensive)
		assert.Equal(t, 1148.85, product.PriceWithTax)
	})

	t.Run("Transport failure surfaces as lookup-error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(0, []byte{}, fmt.Errorf("connection refused"))

		// when
		_, err := sut.GetProduct(ctx, "1")

		// then
		lookupErr := &LookupError{}
		assert.True(t, errors.As(err, &lookupErr))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Non-success status surfaces as lookup-error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(404, []byte{}, nil)

		// when
		_, err := sut.GetProduct(ctx, "1")

		// then
		lookupErr := &LookupError{}
		assert.True(t, errors.As(err, &lookupErr))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Malformed response surfaces as lookup-error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(200, []byte(`not json`), nil)

		// when
		_, err := sut.GetProduct(ctx, "1")

		// then
		lookupErr := &LookupError{}
		assert.True(t, errors.As(err, &lookupErr))
	})
}

func TestGetProductsByCategory(t *testing.T) {

	t.Run("Upstream order is preserved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/category/sports", gomock.Nil()).
			Return(200, []byte(`[{"id":2,"title":"Carbon racing bike","price":999,"category":"sports"},{"id":1,"title":"Running socks","price":25,"category":"sports"}]`), nil)

		// when
		products, err := sut.GetProductsByCategory(ctx, "sports")

		// then
		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "2", products[0].UID)
		assert.Equal(t, 1148.85, products[0].PriceWithTax)
		assert.Equal(t, "1", products[1].UID)
		assert.Equal(t, 27.5, products[1].PriceWithTax)
	})

	t.Run("Failure fails the whole call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/category/sports", gomock.Nil()).
			Return(500, []byte{}, nil)

		// when
		products, err := sut.GetProductsByCategory(ctx, "sports")

		// then
		assert.Error(t, err)
		assert.Nil(t, products)
	})
}

func TestIsAvailable(t *testing.T) {

	t.Run("Cheap product is always available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given: no draw is expected for cheap products
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(200, cheapProductJSON, nil).Times(3)

		// when/then: deterministic on every call
		for i := 0; i < 3; i++ {
			available, err := sut.IsAvailable(ctx, "1")
			assert.NoError(t, err)
			assert.True(t, available)
		}
	})

	t.Run("Expensive product is available when draw exceeds the odds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, chancer := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/2", gomock.Nil()).
			Return(200, expensiveProductJSON, nil)
		chancer.EXPECT().Draw().Return(0.31)

		// when
		available, err := sut.IsAvailable(ctx, "2")

		// then
		assert.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("Expensive product is not available when draw is at or below the odds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, chancer := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/2", gomock.Nil()).
			Return(200, expensiveProductJSON, nil).Times(2)
		gomock.InOrder(
			chancer.EXPECT().Draw().Return(0.3),
			chancer.EXPECT().Draw().Return(0.05),
		)

		// when/then
		available, err := sut.IsAvailable(ctx, "2")
		assert.NoError(t, err)
		assert.False(t, available)

		available, err = sut.IsAvailable(ctx, "2")
		assert.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("Fetch failure is reported as not-available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, httpClient, _ := setup(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/2", gomock.Nil()).
			Return(0, []byte{}, fmt.Errorf("connection refused"))

		// when
		available, err := sut.IsAvailable(ctx, "2")

		// then: fail-closed, not fail-loud
		assert.NoError(t, err)
		assert.False(t, available)
	})
}

func TestNewService(t *testing.T) {

	t.Run("Endpoint is mandatory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := NewService("", myhttpclient.NewMockHTTPSender(ctrl), myrandom.NewMockChancer(ctrl))
		assert.Error(t, err)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *service, *myhttpclient.MockHTTPSender, *myrandom.MockChancer) {
	c := context.TODO()
	httpClient := myhttpclient.NewMockHTTPSender(ctrl)
	chancer := myrandom.NewMockChancer(ctrl)

	sut, err := NewService(testEndpoint, httpClient, chancer)
	assert.NoError(t, err)

	return c, sut, httpClient, chancer
}
