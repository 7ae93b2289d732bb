package catalog

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

//go:embed data/products.yaml data/test_services.yaml
var catalogFS embed.FS

// Set bundles the two reference tables the pipeline needs: the OEM
// product catalog and the testing-services price table. A Set is built
// once per run and passed explicitly to every stage; nothing in the
// pipeline mutates it.
type Set struct {
	products []models.CatalogProduct
	byID     map[string]int
	tests    []models.TestService
	byCode   map[string]int
}

// New builds a Set from already-loaded reference rows. Duplicate IDs
// keep the first occurrence.
func New(products []models.CatalogProduct, tests []models.TestService) *Set {
	s := &Set{
		products: products,
		byID:     make(map[string]int, len(products)),
		tests:    tests,
		byCode:   make(map[string]int, len(tests)),
	}
	for i, p := range products {
		if _, ok := s.byID[p.ID]; !ok {
			s.byID[p.ID] = i
		}
	}
	for i, t := range tests {
		if _, ok := s.byCode[t.Code]; !ok {
			s.byCode[t.Code] = i
		}
	}
	return s
}

// Products returns the catalog rows in load order. Callers must not
// modify the returned slice.
func (s *Set) Products() []models.CatalogProduct {
	return s.products
}

func (s *Set) Product(id string) (models.CatalogProduct, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.CatalogProduct{}, false
	}
	return s.products[i], true
}

func (s *Set) TestServices() []models.TestService {
	return s.tests
}

func (s *Set) TestService(code string) (models.TestService, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return models.TestService{}, false
	}
	return s.tests[i], true
}

func (s *Set) ProductCount() int { return len(s.products) }
func (s *Set) TestCount() int    { return len(s.tests) }

type productsFile struct {
	Products []models.CatalogProduct `yaml:"products"`
}

type testServicesFile struct {
	TestServices []models.TestService `yaml:"test_services"`
}

// LoadEmbedded returns the Set built from the YAML reference data
// compiled into the binary. This is the fallback catalog used when no
// database is available (CLI tools, tests, first boot before seeding).
func LoadEmbedded() (*Set, error) {
	prodData, err := catalogFS.ReadFile("data/products.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded products: %w", err)
	}
	testData, err := catalogFS.ReadFile("data/test_services.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded test services: %w", err)
	}
	return parse(prodData, testData)
}

// LoadFiles reads the two catalog YAML files from disk. Used by tooling
// that wants to evaluate against a modified catalog without reseeding.
func LoadFiles(productsPath, testsPath string) (*Set, error) {
	prodData, err := os.ReadFile(productsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", productsPath, err)
	}
	testData, err := os.ReadFile(testsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", testsPath, err)
	}
	return parse(prodData, testData)
}

func parse(prodData, testData []byte) (*Set, error) {
	var pf productsFile
	if err := yaml.Unmarshal(prodData, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse products yaml: %w", err)
	}
	var tf testServicesFile
	if err := yaml.Unmarshal(testData, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse test services yaml: %w", err)
	}
	if len(pf.Products) == 0 {
		return nil, fmt.Errorf("product catalog is empty")
	}
	return New(pf.Products, tf.TestServices), nil
}
