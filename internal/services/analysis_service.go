package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/imaging"
	"mediscan_backend/internal/inference"
	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/models"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/pkg/apperrors"
)

// AnalysisService gates inference behind the scan ledger: a request first
// debits one scan, then forwards to the inference backend and records the
// outcome as activity.
type AnalysisService interface {
	AnalyzeImage(ctx context.Context, userID, modelID, filename string, image []byte) (*dto.AnalyzeResponse, error)
	AnalyzeValues(ctx context.Context, userID string, req *dto.ValuesAnalyzeRequest) (*dto.AnalyzeResponse, error)
	RecentActivity(userID string) ([]dto.ActivityResponse, error)
}

type analysisService struct {
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityRepository
	entitlement  EntitlementService
	inference    inference.Client
	preprocessor *imaging.Preprocessor
	timeout      time.Duration
	now          func() time.Time
}

func NewAnalysisService(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityRepository,
	entitlement EntitlementService,
	client inference.Client,
	preprocessor *imaging.Preprocessor,
	timeout time.Duration,
) AnalysisService {
	return &analysisService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		entitlement:  entitlement,
		inference:    client,
		preprocessor: preprocessor,
		timeout:      timeout,
		now:          time.Now,
	}
}

func (s *analysisService) AnalyzeImage(ctx context.Context, userID, modelID, filename string, image []byte) (*dto.AnalyzeResponse, error) {
	// Reject and normalize uploads before anything is debited.
	prepared, _, err := s.preprocessor.Prepare(image)
	if err != nil {
		if apperrors.Is(err, imaging.ErrUnsupportedImage) {
			return nil, apperrors.NewBadRequestError("Uploaded file is not a supported image")
		}
		return nil, apperrors.InternalError(err)
	}

	return s.analyze(ctx, userID, modelID, func(ctx context.Context) (*inference.Result, error) {
		return s.inference.AnalyzeImage(ctx, modelID, filename, prepared)
	})
}

func (s *analysisService) AnalyzeValues(ctx context.Context, userID string, req *dto.ValuesAnalyzeRequest) (*dto.AnalyzeResponse, error) {
	return s.analyze(ctx, userID, req.ModelID, func(ctx context.Context) (*inference.Result, error) {
		return s.inference.AnalyzeValues(ctx, req.ModelID, req.Values)
	})
}

func (s *analysisService) analyze(ctx context.Context, userID, modelID string, run func(context.Context) (*inference.Result, error)) (*dto.AnalyzeResponse, error) {
	source, err := s.entitlement.DebitForAnalysis(userID, s.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := run(ctx)
	if err != nil {
		// The scan stays consumed: the user triggered a real inference
		// attempt, and refunding here would open a free retry loop.
		logger.CtxWithError(ctx, "inference request failed", err, "model_id", modelID)
		return nil, apperrors.ErrInferenceFailure(err)
	}

	if err := s.recordActivity(userID, modelID, source, result); err != nil {
		logger.CtxWithError(ctx, "could not record analysis activity", err, "model_id", modelID)
	}

	resp := &dto.AnalyzeResponse{
		Prediction: result.Prediction,
		Confidence: result.Confidence,
		Details:    result.Details,
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		// The analysis itself succeeded; report it without the counters.
		logger.CtxWithError(ctx, "could not load user after debit", err)
		return resp, nil
	}
	now := s.now()
	resp.ScansInfo = dto.ScansInfo{
		Source:          string(source),
		PlanRemaining:   user.EffectivePlanScans(now),
		FreeRemaining:   user.FreeScansRemaining(),
		CustomRemaining: user.CustomScansBalance,
	}
	return resp, nil
}

func (s *analysisService) recordActivity(userID, modelID string, source repositories.ScanSource, result *inference.Result) error {
	details, err := json.Marshal(map[string]interface{}{
		"details": result.Details,
		"source":  string(source),
	})
	if err != nil {
		return err
	}
	return s.activityRepo.Create(&models.AnalysisActivity{
		UserID:     userID,
		ModelID:    modelID,
		Result:     result.Prediction,
		Confidence: result.Confidence,
		Details:    datatypes.JSON(details),
	})
}

func (s *analysisService) RecentActivity(userID string) ([]dto.ActivityResponse, error) {
	activities, err := s.activityRepo.FindRecentByUser(userID, 20)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, dto.ActivityResponse{
			ID:         a.ID,
			ModelID:    a.ModelID,
			Result:     a.Result,
			Confidence: a.Confidence,
			Timestamp:  a.CreatedAt,
		})
	}
	return out, nil
}
