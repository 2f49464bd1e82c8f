// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

func main() {
	customerServiceURL, _ := url.Parse(getEnv("CUSTOMER_SERVICE_URL", "http://localhost:8081"))
	fraudServiceURL, _ := url.Parse(getEnv("FRAUD_SERVICE_URL", "http://localhost:8082"))
	notificationServiceURL, _ := url.Parse(getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8083"))

	customerProxy := httputil.NewSingleHostReverseProxy(customerServiceURL)
	fraudProxy := httputil.NewSingleHostReverseProxy(fraudServiceURL)
	notificationProxy := httputil.NewSingleHostReverseProxy(notificationServiceURL)

	// Services keep their own route shapes; the gateway only strips /api/v1.
	http.Handle("/api/v1/customers", http.StripPrefix("/api/v1", customerProxy))
	http.Handle("/api/v1/customers/", http.StripPrefix("/api/v1", customerProxy))
	http.Handle("/api/v1/fraud-check/", http.StripPrefix("/api/v1", fraudProxy))
	http.Handle("/api/v1/notification", http.StripPrefix("/api/v1", notificationProxy))

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
