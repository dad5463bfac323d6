package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/metrics"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/storage"
	"hrflow_backend/pkg/apperrors"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// scoringSchema - контракт результата скоринга (внешний пайплайн и Gemini)
const scoringSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score":                  {"type": "number", "minimum": 0, "maximum": 100},
    "justification":          {"type": "string"},
    "similarity_score":       {"type": ["number", "null"], "minimum": 0, "maximum": 1},
    "passed_hard_gate":       {"type": ["boolean", "null"]},
    "qualitative_assessment": {"type": ["object", "null"]},
    "cv_data":                {"type": ["object", "null"]},
    "requirement_data":       {"type": ["object", "null"]}
  }
}`

// maxScoredCVSize - больше этого в модель не отправляем
const maxScoredCVSize = 10 << 20

// CVScorer - модель, которая оценивает CV против требований позиции
type CVScorer interface {
	ScoreDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error)
}

type ScoringService interface {
	// IngestScore сохраняет результат и переводит SUBMITTED -> REVIEWED от имени системы
	IngestScore(ctx context.Context, db *gorm.DB, id string, req *dto.ScoreRequest) (*dto.ApplicationResponse, error)
	// ScoreBatch - один проход воркера по SUBMITTED заявкам
	ScoreBatch(ctx context.Context, db *gorm.DB, limit int) (dto.ScoreBatchResult, error)
	Enabled() bool
}

type scoringService struct {
	*statusWriter
	storage storage.Storage
	scorer  CVScorer
	schema  *gojsonschema.Schema
}

// NewScoringService - scorer может быть nil: тогда работает только внешний ingest
func NewScoringService(
	appRepo repositories.ApplicationRepository,
	historyRepo repositories.HistoryRepository,
	store storage.Storage,
	scorer CVScorer,
	bus events.Bus,
) (ScoringService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(scoringSchema))
	if err != nil {
		return nil, fmt.Errorf("compile scoring schema: %w", err)
	}
	return &scoringService{
		statusWriter: newStatusWriter(appRepo, historyRepo, bus),
		storage:      store,
		scorer:       scorer,
		schema:       schema,
	}, nil
}

func (s *scoringService) Enabled() bool {
	return s.scorer != nil
}

func (s *scoringService) IngestScore(ctx context.Context, db *gorm.DB, id string, req *dto.ScoreRequest) (*dto.ApplicationResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.appRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	fields := scoringFields(req, s.now())

	var changed *events.ApplicationStatusChanged
	if app.Status == models.ApplicationStatusSubmitted {
		changed, err = s.transition(tx, SystemActor, app, models.ApplicationStatusReviewed, app.Notes(), fields, "AI scoring completed")
	} else {
		// повторный скоринг уже рассмотренной заявки обновляет только поля
		err = mapRepoError(s.appRepo.UpdateScoring(tx, id, fields))
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)

	app, err = s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := buildApplicationResponse(app, SystemActor)
	return &resp, nil
}

func (s *scoringService) ScoreBatch(ctx context.Context, db *gorm.DB, limit int) (dto.ScoreBatchResult, error) {
	var result dto.ScoreBatchResult
	if !s.Enabled() {
		return result, nil
	}
	if limit <= 0 {
		limit = 10
	}

	apps, err := s.appRepo.FindForScoring(db, limit)
	if err != nil {
		return result, apperrors.InternalError(err)
	}
	result.Picked = len(apps)

	for i := range apps {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		app := &apps[i]
		if err := s.scoreOne(ctx, db, app); err != nil {
			result.Failed++
			metrics.WorkerErrors.WithLabelValues("ai_scoring").Inc()
			logger.WorkerLog("ai_scoring", "score_application", err, "application_id", app.ID)
			continue
		}
		result.Scored++
	}
	return result, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *scoringService) scoreOne(ctx context.Context, db *gorm.DB, app *models.CvApplication) error {
	mimeType := getMimeTypeFromFilename(app.CvFileName)
	if !lo.Contains([]string{"application/pdf", "text/plain"}, mimeType) {
		return fmt.Errorf("unsupported CV format for AI scoring: %s", mimeType)
	}

	body, err := s.storage.Get(ctx, app.CvFileObjectKey)
	if err != nil {
		return fmt.Errorf("read cv: %w", err)
	}
	defer body.Close()

	document, err := io.ReadAll(io.LimitReader(body, maxScoredCVSize+1))
	if err != nil {
		return fmt.Errorf("read cv: %w", err)
	}
	if len(document) > maxScoredCVSize {
		return fmt.Errorf("cv is too large for AI scoring")
	}

	started := time.Now()
	answer, err := s.scorer.ScoreDocument(ctx, buildScoringPrompt(app.AppliedPosition), document, mimeType)
	metrics.ScoringDuration.Observe(time.Since(started).Seconds())
	logger.ExternalCallLog("gemini", "score_cv", time.Since(started), err)
	if err != nil {
		return err
	}

	req, err := parseScoringAnswer(answer)
	if err != nil {
		return err
	}
	_, err = s.IngestScore(ctx, db, app.ID, req)
	return err
}

func (s *scoringService) validate(req *dto.ScoreRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return apperrors.ErrInvalidScoringPayload.WithError(err)
	}
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return apperrors.ErrInvalidScoringPayload.WithError(err)
	}
	if !result.Valid() {
		details := lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
			return e.String()
		})
		return apperrors.ErrInvalidScoringPayload.WithDetails(details)
	}
	return nil
}

func scoringFields(req *dto.ScoreRequest, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"score":                  req.Score,
		"justification":          req.Justification,
		"similarity_score":       req.SimilarityScore,
		"passed_hard_gate":       req.PassedHardGate,
		"qualitative_assessment": jsonColumn(req.QualitativeAssessment),
		"cv_data":                jsonColumn(req.CvData),
		"requirement_data":       jsonColumn(req.RequirementData),
		"scored_at":              now,
	}
}

func jsonColumn(raw json.RawMessage) interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return datatypes.JSON(trimmed)
}

func buildScoringPrompt(position *models.JobPosition) string {
	name, requirements := "unspecified position", ""
	if position != nil {
		name = position.Name
		requirements = position.SpecificRequirements
	}

	var b strings.Builder
	b.WriteString("You are screening a candidate CV (attached) for the position \"")
	b.WriteString(name)
	b.WriteString("\".\n\nPosition requirements:\n")
	b.WriteString(requirements)
	b.WriteString("\n\nAnswer with a single JSON object and nothing else, with keys:\n")
	b.WriteString(`"score" (number 0-100), "justification" (string), "similarity_score" (number 0-1), `)
	b.WriteString(`"passed_hard_gate" (boolean, false if any mandatory requirement is missing), `)
	b.WriteString(`"qualitative_assessment" (object with "strengths" and "gaps" arrays), `)
	b.WriteString(`"cv_data" (object with extracted "skills", "experience_years", "education"), `)
	b.WriteString(`"requirement_data" (object mapping each requirement to true/false).`)
	return b.String()
}

// parseScoringAnswer - модель иногда оборачивает JSON в markdown-блок
func parseScoringAnswer(answer string) (*dto.ScoreRequest, error) {
	text := strings.TrimSpace(answer)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var req dto.ScoreRequest
	if err := json.Unmarshal([]byte(text), &req); err != nil {
		return nil, apperrors.ErrInvalidScoringPayload.WithError(err)
	}
	return &req, nil
}
