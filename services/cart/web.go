package cart

import (
	"context"
	"fmt"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/shoppingcart/lib/mycontext"
	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/myhttp"
	"github.com/MarcGrol/shoppingcart/services/cartevents"
)

func (s *service) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cart", s.listCartsPage()).Methods("GET")
	router.HandleFunc("/cart", s.createCartPage()).Methods("POST")
	router.HandleFunc("/cart/{cartUID}", s.cartDetailsPage()).Methods("GET")
	router.HandleFunc("/cart/{cartUID}/items", s.addProductPage()).Methods("POST")
	router.HandleFunc("/cart/{cartUID}/items", s.clearCartPage()).Methods("DELETE")
	router.HandleFunc("/cart/{cartUID}/summary", s.summaryPage()).Methods("GET")
	router.HandleFunc("/cart/{cartUID}/validation", s.validationPage()).Methods("GET")

	err := s.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

func (s *service) listCartsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		carts, err := s.listCarts(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, carts)
	}
}

func (s *service) createCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cart, err := s.createCart(c)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *service) cartDetailsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		cart, err := s.getCart(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, cart)
	}
}

type addProductForm struct {
	ProductUID string `form:"productUid"`
	Quantity   int    `form:"quantity"`
}

func parseAddProductForm(r *http.Request) (addProductForm, error) {
	err := r.ParseForm()
	if err != nil {
		return addProductForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err))
	}

	form := addProductForm{
		Quantity: 1, // default when the field is omitted
	}
	err = formcodec.NewDecoder().Decode(&form, r.PostForm)
	if err != nil {
		return addProductForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	if form.ProductUID == "" {
		return addProductForm{}, myerrors.NewInvalidInputError(fmt.Errorf("missing productUid"))
	}

	return form, nil
}

func (s *service) addProductPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		form, err := parseAddProductForm(r)
		if err != nil {
			responseWriter.WriteError(c, w, 4, err)
			return
		}

		line, err := s.addProduct(c, cartUID, form.ProductUID, form.Quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 5, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, line)
	}
}

func (s *service) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		err := s.clearCart(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 6, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("cart %s cleared", cartUID),
		})
	}
}

func (s *service) summaryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		summary, err := s.getSummary(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 7, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, summary)
	}
}

func (s *service) validationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		report, err := s.validateCart(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 8, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, report)
	}
}
