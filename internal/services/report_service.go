package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"stockflow/internal/models"
	"stockflow/internal/repositories"
)

const (
	reportBucket    = "stockflow-reports"
	reportURLExpiry = 24 * time.Hour
)

// ReportService exports a finalized run as CSV to object storage and hands
// back a presigned download link.
type ReportService interface {
	ExportRun(ctx context.Context, tenantID, runID uuid.UUID) (string, error)
}

type reportService struct {
	runRepo        repositories.RunRepository
	suggestionRepo repositories.SuggestionRepository
	recommendRepo  repositories.RecommendationRepository
	store          ObjectStoreService
}

func NewReportService(
	runRepo repositories.RunRepository,
	suggestionRepo repositories.SuggestionRepository,
	recommendRepo repositories.RecommendationRepository,
	store ObjectStoreService,
) ReportService {
	return &reportService{
		runRepo:        runRepo,
		suggestionRepo: suggestionRepo,
		recommendRepo:  recommendRepo,
		store:          store,
	}
}

func (s *reportService) ExportRun(ctx context.Context, tenantID, runID uuid.UUID) (string, error) {
	run, err := s.runRepo.GetByID(ctx, tenantID, runID)
	if err != nil {
		return "", fmt.Errorf("load run %s: %w", runID, err)
	}
	if run.Status != models.RunStatusCompleted {
		return "", fmt.Errorf("run %s is %s, only completed runs can be exported", runID, run.Status)
	}

	var body []byte
	if run.RunType == models.RunTypeAllocate {
		recs, err := s.recommendRepo.ListByRun(ctx, tenantID, runID)
		if err != nil {
			return "", fmt.Errorf("load recommendations: %w", err)
		}
		body, err = recommendationCSV(recs)
		if err != nil {
			return "", err
		}
	} else {
		suggestions, err := s.suggestionRepo.ListByRun(ctx, tenantID, runID)
		if err != nil {
			return "", fmt.Errorf("load suggestions: %w", err)
		}
		body, err = suggestionCSV(suggestions)
		if err != nil {
			return "", err
		}
	}

	if err := s.store.EnsureBucketExists(ctx, reportBucket); err != nil {
		return "", fmt.Errorf("ensure report bucket: %w", err)
	}

	objectName := fmt.Sprintf("runs/%s/%s.csv", tenantID, runID)
	if err := s.store.UploadObject(ctx, reportBucket, objectName, "text/csv", bytes.NewReader(body), int64(len(body))); err != nil {
		return "", fmt.Errorf("upload run report: %w", err)
	}

	url, err := s.store.GetPresignedURL(ctx, reportBucket, objectName, reportURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign run report: %w", err)
	}

	log.Printf("Exported run %s report for tenant %s (%d bytes)", runID, tenantID, len(body))
	return url, nil
}

func suggestionCSV(suggestions []*models.TransferSuggestion) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "kind", "item_id", "from_location_id", "to_location_id", "quantity",
		"priority", "from_cover_before", "from_cover_after", "to_cover_before", "to_cover_after",
		"revenue_gain", "logistics_cost", "net_benefit", "reason", "status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sug := range suggestions {
		record := []string{
			sug.ID.String(), sug.Kind, sug.ItemID.String(),
			sug.FromLocationID.String(), sug.ToLocationID.String(),
			strconv.Itoa(sug.Quantity), sug.Priority,
			formatCover(sug.FromCoverBefore), formatCover(sug.FromCoverAfter),
			formatCover(sug.ToCoverBefore), formatCover(sug.ToCoverAfter),
			sug.RevenueGain.String(), sug.LogisticsCost.String(), sug.NetBenefit.String(),
			sug.Reason, sug.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func recommendationCSV(recs []*models.AllocationRecommendation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "item_id", "location_id", "recommended_qty", "on_hand",
		"current_cover_weeks", "projected_cover_weeks", "daily_velocity",
		"priority", "revenue_potential", "reason", "status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, rec := range recs {
		record := []string{
			rec.ID.String(), rec.ItemID.String(), rec.LocationID.String(),
			strconv.Itoa(rec.RecommendedQty), strconv.Itoa(rec.OnHand),
			formatCover(rec.CurrentCoverWeeks), formatCover(rec.ProjectedCoverWeeks),
			strconv.FormatFloat(rec.DailyVelocity, 'f', -1, 64),
			rec.Priority, rec.RevenuePotential.String(),
			rec.Reason, rec.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatCover(weeks float64) string {
	return strconv.FormatFloat(weeks, 'f', 2, 64)
}
