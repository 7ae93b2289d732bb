package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Kicks the running server's seed and embedding endpoints. Convenience
// wrapper for deployments where the database is not reachable directly.
func main() {
	adminSecret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if adminSecret == "" {
		fmt.Println("Missing ADMIN_SECRET environment variable")
		os.Exit(1)
	}

	baseURL := strings.TrimSpace(os.Getenv("BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}

	client := &http.Client{}
	for _, path := range []string{"/api/v1/seed", "/api/v1/admin/embed-products"} {
		req, err := http.NewRequest("POST", baseURL+path, nil)
		if err != nil {
			fmt.Printf("Error creating request: %v\n", err)
			os.Exit(1)
		}
		req.Header.Set("X-Admin-Secret", adminSecret)

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("Error sending request: %v\n", err)
			os.Exit(1)
		}
		resp.Body.Close()

		fmt.Printf("%s: %s\n", path, resp.Status)
		if resp.StatusCode >= 400 {
			os.Exit(1)
		}
	}
}
