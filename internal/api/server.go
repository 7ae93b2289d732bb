package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rakesh/rfp-evaluator/internal/ai"
	"github.com/rakesh/rfp-evaluator/internal/auth"
	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/db"
	"github.com/rakesh/rfp-evaluator/internal/intake"
	"github.com/rakesh/rfp-evaluator/internal/models"
	"github.com/rakesh/rfp-evaluator/internal/pipeline"
)

const maxUploadBytes = 20 << 20

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	AI          *ai.OllamaClient
	Fetcher     *intake.RateLimitedFetcher

	// Catalog snapshot and the pipeline built on it. Swapped under mu
	// after a seed so in-flight requests keep a consistent view.
	mu   sync.RWMutex
	pipe *pipeline.Pipeline

	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // running, completed, failed
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at,omitempty"`
	Result    any                `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool) (*Server, error) {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	store := db.NewStore(pool)
	authService := auth.NewService(pool)

	ollamaHost := os.Getenv("OLLAMA_HOST")
	aiClient := ai.NewOllamaClient(ollamaHost, "", os.Getenv("OLLAMA_GEN_MODEL"))

	// Prefer the database catalog; fall back to the embedded seed data
	// so the evaluator works before the first seed.
	set, err := store.LoadCatalog(context.Background())
	if err != nil {
		log.Printf("catalog not available from database (%v); using embedded catalog", err)
		set, err = catalog.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("load embedded catalog: %w", err)
		}
	}

	s := &Server{
		DB:          pool,
		Store:       store,
		AuthService: authService,
		Echo:        e,
		AI:          aiClient,
		Fetcher:     intake.NewRateLimitedFetcher(intake.FetchConfig{}),
		pipe:        pipeline.New(set),
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Evaluation
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/analyze/pdf", s.handleAnalyzePDF)

	// Reports
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:id", s.handleGetReport)

	// Catalog
	api.GET("/catalog/products", s.handleCatalogProducts)
	api.GET("/catalog/tests", s.handleCatalogTests)

	// Admin (seed, embeddings, remote fetch)
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/analyze/url", s.handleAnalyzeURL)
	admin.POST("/seed", s.handleSeed)
	admin.POST("/admin/embed-products", s.handleEmbedProducts)
	admin.GET("/admin/job/:id", s.handleJobStatus)
	admin.DELETE("/reports/:id", s.handleDeleteReport)

	// Auth
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected (saved reports)
	saved := api.Group("/saved")
	saved.Use(auth.Middleware)
	saved.POST("/:id", s.handleSaveReport)
	saved.DELETE("/:id", s.handleUnsaveReport)
	saved.GET("", s.handleGetSavedReports)
}

func (s *Server) pipeline() *pipeline.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipe
}

func (s *Server) reloadCatalog(ctx context.Context) error {
	set, err := s.Store.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pipe = pipeline.New(set)
	s.mu.Unlock()
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Evaluation handlers

type analyzeRequest struct {
	ProjectName string `json:"project_name"`
	IssuedBy    string `json:"issued_by"`
	Deadline    string `json:"deadline"` // YYYY-MM-DD

	// Either raw tender text, or pre-split sections.
	RawText                 string `json:"raw_text"`
	ProjectOverview         string `json:"project_overview"`
	ScopeOfSupply           string `json:"scope_of_supply"`
	TechnicalSpecifications string `json:"technical_specifications"`
	TestingRequirements     string `json:"testing_requirements"`
	DeliveryTimeline        string `json:"delivery_timeline"`
	PricingDetails          string `json:"pricing_details"`
	EvaluationCriteria      string `json:"evaluation_criteria"`
	SubmissionFormat        string `json:"submission_format"`

	// UseLLM routes section extraction and line-item splitting through
	// the local model instead of the heuristic path.
	UseLLM bool `json:"use_llm"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	now := time.Now().UTC()
	rfp, err := s.buildRFPFromRequest(c.Request().Context(), req, now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return s.runAnalysis(c, rfp, req.UseLLM, now)
}

func (s *Server) handleAnalyzePDF(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unable to read upload"})
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unable to read upload"})
	}
	if len(content) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	text, err := intake.ExtractPDFText(content)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "unable to extract text from PDF"})
	}

	now := time.Now().UTC()
	useLLM := strings.EqualFold(c.QueryParam("use_llm"), "true")
	rfp, err := s.buildRFPFromRequest(c.Request().Context(), analyzeRequest{
		ProjectName: strings.TrimSuffix(fileHeader.Filename, ".pdf"),
		RawText:     text,
		UseLLM:      useLLM,
	}, now)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	return s.runAnalysis(c, rfp, useLLM, now)
}

func (s *Server) handleAnalyzeURL(c echo.Context) error {
	urlStr := c.QueryParam("url")
	if urlStr == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url param required"})
	}

	// The fetcher refuses private and link-local targets, including
	// redirects, so this endpoint cannot be used to probe the network.
	fetched, err := s.Fetcher.Fetch(c.Request().Context(), urlStr)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("fetch failed: %v", err)})
	}
	defer fetched.Body.Close()

	body, err := io.ReadAll(io.LimitReader(fetched.Body, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "unable to read response"})
	}

	var title, text string
	if strings.Contains(fetched.ContentType, "application/pdf") {
		text, err = intake.ExtractPDFText(body)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "unable to extract text from PDF"})
		}
	} else {
		text, err = intake.HTMLToText(strings.NewReader(string(body)))
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "unable to parse HTML"})
		}
		title, _ = intake.PageTitle(strings.NewReader(string(body)))
	}

	now := time.Now().UTC()
	useLLM := strings.EqualFold(c.QueryParam("use_llm"), "true")

	doc := intake.TenderDocument{URL: urlStr, Title: title, Text: text, FetchedAt: fetched.FetchedAt}
	rfp := intake.BuildRFP(doc, now)
	if rfp.ScopeOfSupply == "" && useLLM {
		if enriched, exErr := s.extractWithLLM(c.Request().Context(), rfp, text); exErr == nil {
			rfp = enriched
		}
	}
	if rfp.ScopeOfSupply == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "no scope of supply found in document"})
	}

	return s.runAnalysis(c, rfp, useLLM, now)
}

func (s *Server) buildRFPFromRequest(ctx context.Context, req analyzeRequest, now time.Time) (models.RFP, error) {
	if req.RawText != "" {
		doc := intake.TenderDocument{Title: req.ProjectName, Text: req.RawText}
		rfp := intake.BuildRFP(doc, now)
		if req.IssuedBy != "" {
			rfp.IssuedBy = req.IssuedBy
		}
		if rfp.ScopeOfSupply == "" && req.UseLLM {
			if enriched, err := s.extractWithLLM(ctx, rfp, req.RawText); err == nil {
				rfp = enriched
			}
		}
		if rfp.ScopeOfSupply == "" {
			return models.RFP{}, fmt.Errorf("no scope of supply found in raw_text")
		}
		return rfp, nil
	}

	if req.ScopeOfSupply == "" {
		return models.RFP{}, fmt.Errorf("either raw_text or scope_of_supply is required")
	}

	rfp := models.RFP{
		ID:                      uuid.New(),
		ProjectName:             req.ProjectName,
		IssuedBy:                req.IssuedBy,
		ProjectOverview:         req.ProjectOverview,
		ScopeOfSupply:           req.ScopeOfSupply,
		TechnicalSpecifications: req.TechnicalSpecifications,
		TestingRequirements:     req.TestingRequirements,
		DeliveryTimeline:        req.DeliveryTimeline,
		PricingDetails:          req.PricingDetails,
		EvaluationCriteria:      req.EvaluationCriteria,
		SubmissionFormat:        req.SubmissionFormat,
		CreatedAt:               now,
	}
	if req.Deadline != "" {
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return models.RFP{}, fmt.Errorf("deadline must be YYYY-MM-DD")
		}
		d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		rfp.SubmissionDeadline = &d
	}
	return rfp, nil
}

// extractWithLLM asks the model to carve the sections out of raw text
// when heading-based splitting found nothing.
func (s *Server) extractWithLLM(ctx context.Context, rfp models.RFP, rawText string) (models.RFP, error) {
	aiCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	extracted, err := s.AI.ExtractRFP(aiCtx, rfp.ProjectName, rfp.SourceURL, rawText)
	if err != nil {
		return rfp, err
	}

	if extracted.ProjectName != "" && rfp.ProjectName == "" {
		rfp.ProjectName = extracted.ProjectName
	}
	if extracted.IssuedBy != "" {
		rfp.IssuedBy = extracted.IssuedBy
	}
	if extracted.DeadlineISO != "" && rfp.SubmissionDeadline == nil {
		if d, perr := time.Parse("2006-01-02", extracted.DeadlineISO); perr == nil {
			d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			rfp.SubmissionDeadline = &d
		}
	}
	rfp.ProjectOverview = extracted.ProjectOverview
	rfp.ScopeOfSupply = extracted.ScopeOfSupply
	rfp.TechnicalSpecifications = extracted.TechnicalSpecifications
	rfp.TestingRequirements = extracted.TestingRequirements
	rfp.DeliveryTimeline = extracted.DeliveryTimeline
	rfp.PricingDetails = extracted.PricingDetails
	rfp.EvaluationCriteria = extracted.EvaluationCriteria
	rfp.SubmissionFormat = extracted.SubmissionFormat
	return rfp, nil
}

func (s *Server) runAnalysis(c echo.Context, rfp models.RFP, useLLM bool, now time.Time) error {
	ctx := c.Request().Context()

	var splitter pipeline.LineItemSplitter
	if useLLM {
		splitter = s.AI
	}

	report, err := s.pipeline().Analyze(ctx, rfp, splitter, now)
	if err != nil {
		c.Logger().Errorf("analysis failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	// Persistence failures should not lose the computed report.
	if err := s.Store.SaveRFP(ctx, rfp); err != nil {
		c.Logger().Errorf("failed to save rfp: %v", err)
	}
	if err := s.Store.SaveReport(ctx, rfp.ID, &report); err != nil {
		c.Logger().Errorf("failed to save report: %v", err)
	}

	return c.JSON(http.StatusOK, report)
}

// Report handlers

func (s *Server) handleListReports(c echo.Context) error {
	limit := 20
	offset := 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}

	summaries, total, err := s.Store.ListReports(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("failed to list reports: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": summaries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleGetReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid report ID"})
	}

	report, err := s.Store.GetReport(c.Request().Context(), id)
	if err == db.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleDeleteReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid report ID"})
	}

	if err := s.Store.DeleteReport(c.Request().Context(), id); err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.NoContent(http.StatusOK)
}

// Catalog handlers

func (s *Server) handleCatalogProducts(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	limit := 10
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	if q != "" {
		aiCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if vec, err := s.AI.GenerateEmbedding(aiCtx, q); err == nil {
			hits, searchErr := s.Store.SearchProducts(c.Request().Context(), vec, limit)
			if searchErr == nil && len(hits) > 0 {
				return c.JSON(http.StatusOK, hits)
			}
			if searchErr != nil {
				c.Logger().Errorf("semantic search failed: %v", searchErr)
			}
		} else {
			c.Logger().Errorf("failed to generate query embedding: %v", err)
		}
		// Fallback: substring match over the in-memory catalog.
		return c.JSON(http.StatusOK, filterProducts(s.pipeline().Catalog().Products(), q, limit))
	}

	return c.JSON(http.StatusOK, s.pipeline().Catalog().Products())
}

func filterProducts(products []models.CatalogProduct, q string, limit int) []models.CatalogProduct {
	q = strings.ToLower(q)
	matched := []models.CatalogProduct{}
	for _, p := range products {
		haystack := strings.ToLower(p.ID + " " + p.Name + " " + p.Category + " " + p.Standards)
		if strings.Contains(haystack, q) {
			matched = append(matched, p)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

func (s *Server) handleCatalogTests(c echo.Context) error {
	return c.JSON(http.StatusOK, s.pipeline().Catalog().TestServices())
}

// Admin handlers

func (s *Server) handleSeed(c echo.Context) error {
	ctx := c.Request().Context()

	set, err := catalog.LoadEmbedded()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	products := 0
	for _, p := range set.Products() {
		if err := s.Store.UpsertProduct(ctx, p); err != nil {
			c.Logger().Errorf("failed to seed product: %v", err)
			continue
		}
		products++
	}

	tests := 0
	for _, t := range set.TestServices() {
		if err := s.Store.UpsertTestService(ctx, t); err != nil {
			c.Logger().Errorf("failed to seed test service: %v", err)
			continue
		}
		tests++
	}

	if err := s.reloadCatalog(ctx); err != nil {
		c.Logger().Errorf("failed to reload catalog after seed: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Seed complete",
		"products":      products,
		"test_services": tests,
	})
}

func (s *Server) handleEmbedProducts(c echo.Context) error {
	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		job := s.runningJob
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":  "An embedding job is already running",
			"job_id": job.ID,
		})
	}

	// context.WithoutCancel detaches from the HTTP lifecycle but
	// preserves trace values. We add our own timeout for safety.
	jobCtx, jobCancel := context.WithTimeout(
		context.WithoutCancel(c.Request().Context()), 30*time.Minute,
	)

	jobID := uuid.New().String()[:8]
	job := &backgroundJob{
		ID:        jobID,
		Status:    "running",
		StartedAt: time.Now(),
		Cancel:    jobCancel,
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		defer jobCancel()

		products, err := s.Store.ProductsMissingEmbedding(jobCtx)
		if err != nil {
			s.finishJob(job, nil, err)
			return
		}

		embedded := 0
		var lastErr error
		for _, p := range products {
			vec, embErr := s.AI.GenerateEmbedding(jobCtx, db.EmbeddingText(p))
			if embErr != nil {
				lastErr = embErr
				continue
			}
			if upErr := s.Store.UpdateProductEmbedding(jobCtx, p.ID, vec); upErr != nil {
				lastErr = upErr
				continue
			}
			embedded++
		}

		if embedded == 0 && lastErr != nil {
			s.finishJob(job, nil, lastErr)
			return
		}
		s.finishJob(job, map[string]interface{}{
			"candidates": len(products),
			"embedded":   embedded,
		}, nil)
	}()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Embedding job started",
		"job_id":  jobID,
		"poll":    fmt.Sprintf("/api/v1/admin/job/%s", jobID),
	})
}

func (s *Server) finishJob(job *backgroundJob, result any, err error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	job.EndedAt = time.Now()
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		log.Printf("[job %s] failed: %v", job.ID, err)
		return
	}
	job.Status = "completed"
	job.Result = result
	log.Printf("[job %s] completed", job.ID)
}

func (s *Server) handleJobStatus(c echo.Context) error {
	queried := c.Param("id")
	s.jobMu.Lock()
	job := s.runningJob
	s.jobMu.Unlock()

	if job == nil || job.ID != queried {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	s.jobMu.Lock()
	resp := map[string]interface{}{
		"id":         job.ID,
		"status":     job.Status,
		"started_at": job.StartedAt,
	}
	if !job.EndedAt.IsZero() {
		resp["ended_at"] = job.EndedAt
		resp["duration"] = job.EndedAt.Sub(job.StartedAt).String()
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	s.jobMu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

// Auth handlers

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if !strings.Contains(req.Email, "@") || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Valid email and a password of at least 8 characters are required"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// Protected handlers

func (s *Server) handleSaveReport(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid report ID"})
	}

	if err := s.AuthService.SaveReport(ctx, userID, reportID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save report"})
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) handleUnsaveReport(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid report ID"})
	}

	if err := s.AuthService.UnsaveReport(ctx, userID, reportID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to unsave report"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "unsaved"})
}

func (s *Server) handleGetSavedReports(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	saved, err := s.AuthService.GetSavedReports(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved reports"})
	}

	return c.JSON(http.StatusOK, saved)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
