package cartactivity

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shoppingcart/lib/mycontext"
	"github.com/MarcGrol/shoppingcart/lib/myerrors"
	"github.com/MarcGrol/shoppingcart/lib/myhttp"
	"github.com/MarcGrol/shoppingcart/lib/mystore"
	"github.com/MarcGrol/shoppingcart/services/cartevents"
)

func (s *service) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cartactivity/event", s.eventPage()).Methods("POST")
	router.HandleFunc("/cartactivity/{cartUID}", s.activityPage()).Methods("GET")

	return s.Subscribe(c)
}

// eventPage is the push-subscription webhook for the cart topic.
func (s *service) eventPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := cartevents.DispatchEvent(c, r.Body, s)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

func (s *service) activityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		records, err := s.listActivity(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, records)
	}
}

func (s *service) listActivity(c context.Context, cartUID string) ([]ActivityRecord, error) {
	records, err := s.activityStore.Query(c, []mystore.Filter{
		{Field: "CartUID", Compare: "=", Value: cartUID},
	}, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching activity of cart %s: %s", cartUID, err))
	}

	// the in-memory store does not filter for us
	filtered := make([]ActivityRecord, 0, len(records))
	for _, record := range records {
		if record.CartUID == cartUID {
			filtered = append(filtered, record)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	return filtered, nil
}
