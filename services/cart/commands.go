package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/mylog"
	"github.com/MarcGrol/shoppingcart/services/cartevents"
)

func (s *service) createCart(c context.Context) (Cart, error) {
	cartUID := s.uuider.Create()
	now := s.nower.Now()

	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Create new cart with uid %s", cartUID)

	cart := Cart{
		UID:       cartUID,
		CreatedAt: now,
		Lines:     []CartLine{},
	}

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		err := s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart with uid %s: %s", cartUID, err))
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartCreated{
			CartUID: cartUID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event for cart %s: %s", cartUID, err))
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) listCarts(c context.Context) ([]Cart, error) {
	carts, err := s.cartStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing carts: %s", err))
	}

	sort.Slice(carts, func(i, j int) bool {
		return carts[i].CreatedAt.After(carts[j].CreatedAt)
	})

	return carts, nil
}

// getCart returns the cart with its lines defensively copied so that
// callers can never mutate stored state through the returned value.
func (s *service) getCart(c context.Context, cartUID string) (Cart, error) {
	cart, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(fmt.Errorf("error fetching cart with uid %s: %s", cartUID, err))
	}
	if !found {
		return Cart{}, myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
	}

	cart.Lines = cart.copyOfLines()

	return cart, nil
}

// addProduct looks up and checks the product before touching the cart:
// when the lookup fails or the product is not available, the stored
// cart remains exactly as it was.
func (s *service) addProduct(c context.Context, cartUID string, productUID string, quantity int) (CartLine, error) {
	if quantity < 1 {
		return CartLine{}, myerrors.NewInvalidInputError(fmt.Errorf("quantity must be at least 1, got %d", quantity))
	}

	product, err := s.catalog.GetProduct(c, productUID)
	if err != nil {
		return CartLine{}, err
	}

	available, err := s.catalog.IsAvailable(c, productUID)
	if err != nil {
		return CartLine{}, myerrors.NewInternalError(fmt.Errorf("error checking availability of product %s: %s", productUID, err))
	}
	if !available {
		return CartLine{}, &NotAvailableError{ProductTitle: product.Title}
	}

	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Add %d x product %s to cart %s", quantity, productUID, cartUID)

	var line CartLine
	err = s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, found, err := s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart with uid %s: %s", cartUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}

		line = cart.upsertLine(product, quantity)
		now := s.nower.Now()
		cart.LastModified = &now

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart with uid %s: %s", cartUID, err))
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartItemAdded{
			CartUID:    cartUID,
			ProductUID: productUID,
			Quantity:   quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event for cart %s: %s", cartUID, err))
		}

		return nil
	})
	if err != nil {
		return CartLine{}, err
	}

	return line, nil
}

func (s *service) getSummary(c context.Context, cartUID string) (Summary, error) {
	cart, err := s.getCart(c, cartUID)
	if err != nil {
		return Summary{}, err
	}

	return cart.Summarize(), nil
}

// validateCart re-checks availability of every line. A line whose
// product can no longer be fetched counts as unavailable.
func (s *service) validateCart(c context.Context, cartUID string) (ValidationReport, error) {
	cart, err := s.getCart(c, cartUID)
	if err != nil {
		return ValidationReport{}, err
	}

	report := ValidationReport{
		CartUID:     cartUID,
		LineCount:   len(cart.Lines),
		Available:   []CartLine{},
		Unavailable: []CartLine{},
	}
	for _, line := range cart.Lines {
		available, err := s.catalog.IsAvailable(c, line.ProductUID)
		if err != nil {
			return ValidationReport{}, myerrors.NewInternalError(fmt.Errorf("error checking availability of product %s: %s", line.ProductUID, err))
		}
		if available {
			report.Available = append(report.Available, line)
		} else {
			report.Unavailable = append(report.Unavailable, line)
		}
	}
	report.Valid = len(report.Unavailable) == 0

	return report, nil
}

func (s *service) clearCart(c context.Context, cartUID string) error {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Clear cart %s", cartUID)

	return s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, found, err := s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart with uid %s: %s", cartUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}

		cart.Lines = []CartLine{}
		now := s.nower.Now()
		cart.LastModified = &now

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart with uid %s: %s", cartUID, err))
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartCleared{
			CartUID: cartUID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event for cart %s: %s", cartUID, err))
		}

		return nil
	})
}
