package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")

	jwtSecretOnce    sync.Once
	jwtSecretRuntime []byte
	jwtSecretErr     error
)

func jwtSecretFromEnv() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret != "" {
			jwtSecretRuntime = []byte(secret)
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			jwtSecretErr = fmt.Errorf("failed to generate JWT fallback secret: %w", err)
			return
		}

		jwtSecretRuntime = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if jwtSecretErr != nil {
		return nil, jwtSecretErr
	}
	if len(jwtSecretRuntime) == 0 {
		return nil, errors.New("JWT secret unavailable")
	}

	return jwtSecretRuntime, nil
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", req.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	var user User
	err = s.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, created_at
	`, req.Email, string(hash)).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var user User
	err := s.db.QueryRow(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = $1", req.Email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	// Clear hash before returning
	user.PasswordHash = ""
	return &AuthResponse{Token: token, User: user}, nil
}

func generateToken(userID uuid.UUID) (string, error) {
	secretKey, err := jwtSecretFromEnv()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// Saved reports

// SavedReport is one bookmarked evaluation in a user's workspace.
type SavedReport struct {
	ReportID      uuid.UUID `json:"report_id"`
	ProjectName   string    `json:"project_name"`
	IssuedBy      string    `json:"issued_by"`
	FinalScore    float64   `json:"final_score"`
	Grade         string    `json:"grade"`
	GrandTotalINR float64   `json:"grand_total_inr"`
	SavedAt       time.Time `json:"saved_at"`
}

func (s *Service) SaveReport(ctx context.Context, userID uuid.UUID, reportID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO saved_reports (user_id, report_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, report_id) DO NOTHING
	`, userID, reportID)
	return err
}

func (s *Service) UnsaveReport(ctx context.Context, userID uuid.UUID, reportID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM saved_reports
		WHERE user_id = $1 AND report_id = $2
	`, userID, reportID)
	return err
}

func (s *Service) GetSavedReports(ctx context.Context, userID uuid.UUID) ([]SavedReport, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.project_name, r.issued_by, r.final_score, r.grade,
		       r.grand_total_inr, sr.saved_at
		FROM reports r
		JOIN saved_reports sr ON r.id = sr.report_id
		WHERE sr.user_id = $1
		ORDER BY sr.saved_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []SavedReport
	for rows.Next() {
		var sr SavedReport
		err := rows.Scan(&sr.ReportID, &sr.ProjectName, &sr.IssuedBy,
			&sr.FinalScore, &sr.Grade, &sr.GrandTotalINR, &sr.SavedAt)
		if err != nil {
			return nil, err
		}
		saved = append(saved, sr)
	}
	if saved == nil {
		saved = []SavedReport{}
	}
	return saved, rows.Err()
}
