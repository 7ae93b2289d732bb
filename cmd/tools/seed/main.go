package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rakesh/rfp-evaluator/internal/ai"
	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/db"
)

// Seeds the database catalog from the embedded YAML data, optionally
// generating product embeddings so semantic search works out of the box.
func main() {
	productsPath := flag.String("products", "", "Products YAML path (default: embedded data)")
	testsPath := flag.String("tests", "", "Test services YAML path (default: embedded data)")
	embed := flag.Bool("embed", false, "Generate product embeddings via Ollama after seeding")
	flag.Parse()

	ctx := context.Background()

	var set *catalog.Set
	var err error
	if *productsPath != "" && *testsPath != "" {
		set, err = catalog.LoadFiles(*productsPath, *testsPath)
	} else {
		set, err = catalog.LoadEmbedded()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := db.NewStore(pool)

	for _, p := range set.Products() {
		if err := store.UpsertProduct(ctx, p); err != nil {
			log.Fatalf("Failed to upsert product: %v", err)
		}
	}
	for _, t := range set.TestServices() {
		if err := store.UpsertTestService(ctx, t); err != nil {
			log.Fatalf("Failed to upsert test service: %v", err)
		}
	}
	fmt.Printf("Seeded %d products and %d test services\n", set.ProductCount(), set.TestCount())

	if !*embed {
		return
	}

	client := ai.NewOllamaClient(os.Getenv("OLLAMA_HOST"), "", "")
	missing, err := store.ProductsMissingEmbedding(ctx)
	if err != nil {
		log.Fatalf("Failed to list products missing embeddings: %v", err)
	}

	embedded := 0
	for _, p := range missing {
		vec, err := client.GenerateEmbedding(ctx, db.EmbeddingText(p))
		if err != nil {
			log.Printf("Embedding failed for %s: %v", p.ID, err)
			continue
		}
		if err := store.UpdateProductEmbedding(ctx, p.ID, vec); err != nil {
			log.Printf("Update failed for %s: %v", p.ID, err)
			continue
		}
		embedded++
	}
	fmt.Printf("Embedded %d of %d products\n", embedded, len(missing))
}
