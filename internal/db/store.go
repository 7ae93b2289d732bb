package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Catalog

const productCols = `id, name, category, voltage_rating, conductor_material,
	insulation_type, core_count, armoring, standards, bis_certified,
	unit_price_inr, min_order_qty_meters, lead_time_days, warranty_years`

func scanProduct(scan func(dest ...interface{}) error) (models.CatalogProduct, error) {
	var p models.CatalogProduct
	err := scan(
		&p.ID, &p.Name, &p.Category, &p.VoltageRating, &p.ConductorMaterial,
		&p.InsulationType, &p.CoreCount, &p.Armoring, &p.Standards, &p.BISCertified,
		&p.UnitPriceINR, &p.MinOrderQtyMeters, &p.LeadTimeDays, &p.WarrantyYears,
	)
	return p, err
}

func (s *Store) UpsertProduct(ctx context.Context, p models.CatalogProduct) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, name, category, voltage_rating, conductor_material,
			insulation_type, core_count, armoring, standards, bis_certified,
			unit_price_inr, min_order_qty_meters, lead_time_days, warranty_years, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			voltage_rating = EXCLUDED.voltage_rating,
			conductor_material = EXCLUDED.conductor_material,
			insulation_type = EXCLUDED.insulation_type,
			core_count = EXCLUDED.core_count,
			armoring = EXCLUDED.armoring,
			standards = EXCLUDED.standards,
			bis_certified = EXCLUDED.bis_certified,
			unit_price_inr = EXCLUDED.unit_price_inr,
			min_order_qty_meters = EXCLUDED.min_order_qty_meters,
			lead_time_days = EXCLUDED.lead_time_days,
			warranty_years = EXCLUDED.warranty_years,
			updated_at = NOW()
	`, p.ID, p.Name, p.Category, p.VoltageRating, p.ConductorMaterial,
		p.InsulationType, p.CoreCount, p.Armoring, p.Standards, p.BISCertified,
		p.UnitPriceINR, p.MinOrderQtyMeters, p.LeadTimeDays, p.WarrantyYears)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpsertTestService(ctx context.Context, t models.TestService) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO test_services (code, name, price_inr, duration_hours, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			price_inr = EXCLUDED.price_inr,
			duration_hours = EXCLUDED.duration_hours,
			updated_at = NOW()
	`, t.Code, t.Name, t.PriceINR, t.DurationHours)
	if err != nil {
		return fmt.Errorf("upsert test service %s: %w", t.Code, err)
	}
	return nil
}

// LoadCatalog builds an in-memory catalog set from the database. The
// pipeline works off this snapshot; restarts pick up catalog edits.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Set, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+productCols+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()

	var products []models.CatalogProduct
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product rows: %w", err)
	}

	tRows, err := s.pool.Query(ctx, "SELECT code, name, price_inr, duration_hours FROM test_services ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("load test services: %w", err)
	}
	defer tRows.Close()

	var tests []models.TestService
	for tRows.Next() {
		var t models.TestService
		if err := tRows.Scan(&t.Code, &t.Name, &t.PriceINR, &t.DurationHours); err != nil {
			return nil, fmt.Errorf("scan test service: %w", err)
		}
		tests = append(tests, t)
	}
	if err := tRows.Err(); err != nil {
		return nil, fmt.Errorf("test service rows: %w", err)
	}

	if len(products) == 0 {
		return nil, errors.New("product catalog is empty; seed the products table first")
	}

	return catalog.New(products, tests), nil
}

func (s *Store) UpdateProductEmbedding(ctx context.Context, productID string, embedding []float32) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET embedding = $2, updated_at = NOW() WHERE id = $1",
		productID, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("update embedding for %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ProductsMissingEmbedding(ctx context.Context) ([]models.CatalogProduct, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+productCols+" FROM products WHERE embedding IS NULL ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.CatalogProduct
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductHit is one semantic search result.
type ProductHit struct {
	models.CatalogProduct
	Similarity float64 `json:"similarity"`
}

// SearchProducts ranks catalog products by cosine similarity against a
// query embedding. Products without an embedding are excluded.
func (s *Store) SearchProducts(ctx context.Context, queryEmbedding []float32, limit int) ([]ProductHit, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+productCols+`, 1 - (embedding <=> $1) AS similarity
		FROM products
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(queryEmbedding), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var hits []ProductHit
	for rows.Next() {
		var h ProductHit
		err := rows.Scan(
			&h.ID, &h.Name, &h.Category, &h.VoltageRating, &h.ConductorMaterial,
			&h.InsulationType, &h.CoreCount, &h.Armoring, &h.Standards, &h.BISCertified,
			&h.UnitPriceINR, &h.MinOrderQtyMeters, &h.LeadTimeDays, &h.WarrantyYears,
			&h.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	if hits == nil {
		hits = []ProductHit{}
	}
	return hits, rows.Err()
}

// RFPs

func (s *Store) SaveRFP(ctx context.Context, rfp models.RFP) error {
	sections, err := json.Marshal(map[string]string{
		"project_overview":         rfp.ProjectOverview,
		"scope_of_supply":          rfp.ScopeOfSupply,
		"technical_specifications": rfp.TechnicalSpecifications,
		"testing_requirements":     rfp.TestingRequirements,
		"delivery_timeline":        rfp.DeliveryTimeline,
		"pricing_details":          rfp.PricingDetails,
		"evaluation_criteria":      rfp.EvaluationCriteria,
		"submission_format":        rfp.SubmissionFormat,
	})
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO rfps (id, project_name, issued_by, category, source_url, submission_deadline, sections, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			issued_by = EXCLUDED.issued_by,
			category = EXCLUDED.category,
			source_url = EXCLUDED.source_url,
			submission_deadline = EXCLUDED.submission_deadline,
			sections = EXCLUDED.sections
	`, rfp.ID, rfp.ProjectName, rfp.IssuedBy, rfp.Category, rfp.SourceURL,
		rfp.SubmissionDeadline, sections, rfp.CreatedAt)
	if err != nil {
		return fmt.Errorf("save rfp: %w", err)
	}
	return nil
}

// Reports

// ReportSummary is the list-view projection of a stored report.
type ReportSummary struct {
	ID            uuid.UUID `json:"id"`
	ProjectName   string    `json:"project_name"`
	IssuedBy      string    `json:"issued_by"`
	FinalScore    float64   `json:"final_score"`
	Grade         string    `json:"grade"`
	GrandTotalINR float64   `json:"grand_total_inr"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Store) SaveReport(ctx context.Context, rfpID uuid.UUID, report *models.FinalReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO reports (id, rfp_id, project_name, issued_by, final_score,
			grade, recommendation, grand_total_inr, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			final_score = EXCLUDED.final_score,
			grade = EXCLUDED.grade,
			recommendation = EXCLUDED.recommendation,
			grand_total_inr = EXCLUDED.grand_total_inr,
			payload = EXCLUDED.payload
	`, report.ID, rfpID, report.ProjectName, report.IssuedBy,
		report.BidViability.Score, report.BidViability.Grade,
		report.BidViability.Recommendation, report.Summary.GrandTotalINR,
		payload, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*models.FinalReport, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT payload FROM reports WHERE id = $1", id).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	var report models.FinalReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode report payload: %w", err)
	}
	return &report, nil
}

func (s *Store) ListReports(ctx context.Context, limit, offset int) ([]ReportSummary, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reports").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, project_name, issued_by, final_score, grade, grand_total_inr, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var r ReportSummary
		err := rows.Scan(&r.ID, &r.ProjectName, &r.IssuedBy, &r.FinalScore,
			&r.Grade, &r.GrandTotalINR, &r.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan report summary: %w", err)
		}
		summaries = append(summaries, r)
	}
	if summaries == nil {
		summaries = []ReportSummary{}
	}
	return summaries, total, rows.Err()
}

func (s *Store) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EmbeddingText is the text embedded per product for semantic search.
func EmbeddingText(p models.CatalogProduct) string {
	return fmt.Sprintf("%s. %s %s %s %s core %s cable, %s, standards %s",
		p.Name, p.VoltageRating, p.ConductorMaterial, p.InsulationType,
		p.CoreCount, p.Category, p.Armoring, p.Standards)
}
