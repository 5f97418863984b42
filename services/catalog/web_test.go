package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shoppingcart/lib/myhttpclient"
	"github.com/MarcGrol/shoppingcart/lib/myrandom"
)

func TestCatalogWeb(t *testing.T) {

	t.Run("Get product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, httpClient, _ := setupWeb(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(200, cheapProductJSON, nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/product/1", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, `"Title": "Running socks"`)
		assert.Contains(t, got, `"PriceWithTax": 27.5`)
	})

	t.Run("Get product that cannot be looked up", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, httpClient, _ := setupWeb(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/1", gomock.Nil()).
			Return(404, []byte{}, nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/product/1", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 500, response.Code)
	})

	t.Run("Get products by category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, httpClient, _ := setupWeb(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/category/sports", gomock.Nil()).
			Return(200, []byte(`[{"id":1,"title":"Running socks","price":25,"category":"sports"}]`), nil)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/product/category/sports", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"Category": "sports"`)
	})

	t.Run("Get availability", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, httpClient, chancer := setupWeb(t, ctrl)

		// given
		httpClient.EXPECT().Send(gomock.Any(), "GET", "https://products.test/products/2", gomock.Nil()).
			Return(200, expensiveProductJSON, nil)
		chancer.EXPECT().Draw().Return(0.9)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/product/2/availability", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"Available": true`)
	})
}

func setupWeb(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *myhttpclient.MockHTTPSender, *myrandom.MockChancer) {
	c := context.TODO()
	httpClient := myhttpclient.NewMockHTTPSender(ctrl)
	chancer := myrandom.NewMockChancer(ctrl)

	sut, err := NewService(testEndpoint, httpClient, chancer)
	assert.NoError(t, err)

	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return router, httpClient, chancer
}
