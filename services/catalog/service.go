package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/myhttpclient"
	"github.com/MarcGrol/shoppingcart/lib/mylog"
	"github.com/MarcGrol/shoppingcart/lib/myrandom"
)

// Expensive products are in stock with a 70% probability: a fresh
// uniform draw must exceed these odds on every availability check.
const outOfStockOdds = 0.3

type service struct {
	endpoint   string
	httpClient myhttpclient.HTTPSender
	chancer    myrandom.Chancer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(endpoint string, httpClient myhttpclient.HTTPSender, chancer myrandom.Chancer) (*service, error) {
	if endpoint == "" {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("missing product-api endpoint"))
	}

	return &service{
		endpoint:   endpoint,
		httpClient: httpClient,
		chancer:    chancer,
		logger:     mylog.New("catalog"),
	}, nil
}

func (s *service) GetProduct(c context.Context, productUID string) (Product, error) {
	url := fmt.Sprintf("%s/products/%s", s.endpoint, productUID)

	respBody, err := s.fetch(c, url)
	if err != nil {
		return Product{}, err
	}

	payload := productPayload{}
	err = json.Unmarshal(respBody, &payload)
	if err != nil {
		return Product{}, newLookupError(url, fmt.Errorf("error parsing response: %s", err))
	}

	return payload.toProduct(), nil
}

func (s *service) GetProductsByCategory(c context.Context, category string) ([]Product, error) {
	url := fmt.Sprintf("%s/products/category/%s", s.endpoint, category)

	respBody, err := s.fetch(c, url)
	if err != nil {
		return nil, err
	}

	payloads := []productPayload{}
	err = json.Unmarshal(respBody, &payloads)
	if err != nil {
		return nil, newLookupError(url, fmt.Errorf("error parsing response: %s", err))
	}

	// upstream order is preserved
	products := make([]Product, 0, len(payloads))
	for _, payload := range payloads {
		products = append(products, payload.toProduct())
	}

	return products, nil
}

// IsAvailable re-fetches the product on every call: the stock-estimate
// must reflect a fresh observation, not a cached one. A failing fetch
// counts as not-available rather than as an error.
func (s *service) IsAvailable(c context.Context, productUID string) (bool, error) {
	product, err := s.GetProduct(c, productUID)
	if err != nil {
		s.logger.Log(c, productUID, mylog.SeverityWarn, "Availability check of product %s failed, reporting not-available: %s", productUID, err)
		return false, nil
	}

	if !product.IsExpensive {
		return true, nil
	}

	return s.chancer.Draw() > outOfStockOdds, nil
}

func (s *service) fetch(c context.Context, url string) ([]byte, error) {
	httpStatus, respBody, err := s.httpClient.Send(c, http.MethodGet, url, nil)
	if err != nil {
		return nil, newLookupError(url, err)
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return nil, newLookupError(url, fmt.Errorf("remote returned status %d", httpStatus))
	}

	return respBody, nil
}
