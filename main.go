package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shoppingcart/lib/myhttpclient"
	"github.com/MarcGrol/shoppingcart/lib/mypublisher"
	"github.com/MarcGrol/shoppingcart/lib/mypubsub"
	"github.com/MarcGrol/shoppingcart/lib/myqueue"
	"github.com/MarcGrol/shoppingcart/lib/myrandom"
	"github.com/MarcGrol/shoppingcart/lib/mystore"
	"github.com/MarcGrol/shoppingcart/lib/mytime"
	"github.com/MarcGrol/shoppingcart/lib/myuuid"
	"github.com/MarcGrol/shoppingcart/services/cart"
	"github.com/MarcGrol/shoppingcart/services/cartactivity"
	"github.com/MarcGrol/shoppingcart/services/catalog"
)

const defaultProductAPIEndpoint = "https://fakestoreapi.com"

func main() {
	c := context.Background()

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task-queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	catalogService, err := catalog.NewService(productAPIEndpoint(), myhttpclient.New(), myrandom.New())
	if err != nil {
		log.Fatalf("Error creating catalog-service: %s", err)
	}
	catalogService.RegisterEndpoints(c, router)

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart-store: %s", err)
	}
	defer cartStoreCleanup()

	cartService := cart.NewService(cartStore, catalogService, publisher, nower, uuider)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart-service: %s", err)
	}

	activityStore, activityStoreCleanup, err := mystore.New[cartactivity.ActivityRecord](c)
	if err != nil {
		log.Fatalf("Error creating activity-store: %s", err)
	}
	defer activityStoreCleanup()

	activityService := cartactivity.NewService(activityStore, pubsub, nower, uuider)
	err = activityService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cartactivity-service: %s", err)
	}

	startWebServerBlocking(router)
}

func productAPIEndpoint() string {
	endpoint := os.Getenv("PRODUCT_API_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultProductAPIEndpoint
	}
	return endpoint
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
