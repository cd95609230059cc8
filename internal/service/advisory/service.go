// Package advisory fronts the external text-generation collaborator. It
// validates input before any network call and converts failures into a
// generic error; no entity store is ever mutated here.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/pkg/clients/anthropic"
)

const minSymptomsLength = 10

var (
	// ErrUnavailable signals that no advisory provider is configured.
	ErrUnavailable = errors.New("advisory service not configured")
	// ErrInvalidInput wraps all request validation failures.
	ErrInvalidInput = errors.New("invalid advisory input")
)

// Service validates advisory requests and delegates to the AI client.
type Service struct {
	ai     anthropic.Client
	logger *zap.Logger
}

// NewService wires an advisory service. ai may be nil when no API key is
// configured; calls then fail with ErrUnavailable.
func NewService(ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ai: ai, logger: logger}
}

// HealthAlert returns a structured risk assessment for the described animal.
func (s *Service) HealthAlert(ctx context.Context, input anthropic.HealthAlertInput) (anthropic.HealthAlertReport, error) {
	if err := validateSubject(input.Species, input.AgeMonths, input.WeightKg); err != nil {
		return anthropic.HealthAlertReport{}, err
	}
	if len(strings.TrimSpace(input.Symptoms)) < minSymptomsLength {
		return anthropic.HealthAlertReport{}, fmt.Errorf("%w: symptoms must be at least %d characters", ErrInvalidInput, minSymptomsLength)
	}
	if s.ai == nil {
		return anthropic.HealthAlertReport{}, ErrUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := s.ai.GenerateHealthAlert(callCtx, input)
	if err != nil {
		s.logger.Error("health alert generation failed", zap.String("species", input.Species), zap.Error(err))
		return anthropic.HealthAlertReport{}, fmt.Errorf("generate health alert: %w", err)
	}
	return report, nil
}

// GrowthInsight returns structured growth guidance for the described animal.
func (s *Service) GrowthInsight(ctx context.Context, input anthropic.GrowthInsightInput) (anthropic.GrowthInsightReport, error) {
	if err := validateSubject(input.Species, input.AgeMonths, input.WeightKg); err != nil {
		return anthropic.GrowthInsightReport{}, err
	}
	if s.ai == nil {
		return anthropic.GrowthInsightReport{}, ErrUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := s.ai.GenerateGrowthInsight(callCtx, input)
	if err != nil {
		s.logger.Error("growth insight generation failed", zap.String("species", input.Species), zap.Error(err))
		return anthropic.GrowthInsightReport{}, fmt.Errorf("generate growth insight: %w", err)
	}
	return report, nil
}

func validateSubject(species string, ageMonths int, weightKg float64) error {
	if strings.TrimSpace(species) == "" {
		return fmt.Errorf("%w: species is required", ErrInvalidInput)
	}
	if ageMonths < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidInput)
	}
	if weightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	return nil
}
