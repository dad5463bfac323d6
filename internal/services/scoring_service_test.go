package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/testutil"
	"hrflow_backend/pkg/apperrors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestScoreMovesSubmittedToReviewed(t *testing.T) {
	f := newFixture(t)
	app := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusSubmitted)

	resp, err := f.scoring.IngestScore(f.ctx, f.db, app.ID, &dto.ScoreRequest{
		Score:                 lo.ToPtr(82.5),
		Justification:         "Solid Go background",
		SimilarityScore:       lo.ToPtr(0.71),
		PassedHardGate:        lo.ToPtr(true),
		QualitativeAssessment: json.RawMessage(`{"strengths":["go"],"gaps":[]}`),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusReviewed, resp.Status)
	require.NotNil(t, resp.Score)
	assert.InDelta(t, 82.5, *resp.Score, 0.001)
	assert.NotNil(t, resp.ScoredAt)
	assert.JSONEq(t, `{"strengths":["go"],"gaps":[]}`, string(resp.QualitativeAssessment))

	history, err := f.applications.History(f.ctx, f.db, SystemActor, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleSystem, history[0].ActorRole)
	assert.Nil(t, history[0].ActorID)
}

func TestIngestScoreOnReviewedOnlyUpdatesFields(t *testing.T) {
	f := newFixture(t)
	app := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusStaffApproved)

	resp, err := f.scoring.IngestScore(f.ctx, f.db, app.ID, &dto.ScoreRequest{Score: lo.ToPtr(40.0)})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusStaffApproved, resp.Status)
	assert.InDelta(t, 40.0, *resp.Score, 0.001)
}

func TestIngestScoreRejectsInvalidPayload(t *testing.T) {
	f := newFixture(t)
	app := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusSubmitted)

	_, err := f.scoring.IngestScore(f.ctx, f.db, app.ID, &dto.ScoreRequest{Score: lo.ToPtr(150.0)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidScoringPayload)

	_, err = f.scoring.IngestScore(f.ctx, f.db, app.ID, &dto.ScoreRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidScoringPayload)

	assert.Equal(t, models.ApplicationStatusSubmitted, f.status(t, app.ID))
}

func TestIngestScoreUnknownApplication(t *testing.T) {
	f := newFixture(t)
	_, err := f.scoring.IngestScore(f.ctx, f.db, "3b8f9c1e-0000-4000-8000-000000000000", &dto.ScoreRequest{Score: lo.ToPtr(10.0)})
	assert.Equal(t, apperrors.CodeNotFound, mustAppErr(t, err).Code)
}

func TestScoreBatch(t *testing.T) {
	f := newFixture(t)
	position := testutil.CreatePosition(t, f.db, "Data Engineer", models.PositionStatusOpen, nil)
	good := testutil.CreateApplication(t, f.db, position, models.ApplicationStatusSubmitted)
	require.NoError(t, f.store.Save(f.ctx, good.CvFileObjectKey, bytes.NewReader([]byte("%PDF cv")), "application/pdf"))

	docx := testutil.CreateApplication(t, f.db, position, models.ApplicationStatusSubmitted)
	require.NoError(t, f.db.Model(docx).Update("cv_file_name", "cv.docx").Error)

	f.scorer.Answer = "```json\n{\"score\": 77, \"justification\": \"ok\", \"passed_hard_gate\": true}\n```"

	result, err := f.scoring.ScoreBatch(f.ctx, f.db, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Picked)
	assert.Equal(t, 1, result.Scored)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, models.ApplicationStatusReviewed, f.status(t, good.ID))
	assert.Equal(t, models.ApplicationStatusSubmitted, f.status(t, docx.ID))

	require.Len(t, f.scorer.Prompts, 1)
	assert.Contains(t, f.scorer.Prompts[0], "Data Engineer")
}

func TestScoreBatchScorerFailureLeavesSubmitted(t *testing.T) {
	f := newFixture(t)
	app := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusSubmitted)
	require.NoError(t, f.store.Save(f.ctx, app.CvFileObjectKey, bytes.NewReader([]byte("%PDF")), "application/pdf"))
	f.scorer.Err = errors.New("quota exceeded")

	result, err := f.scoring.ScoreBatch(f.ctx, f.db, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, models.ApplicationStatusSubmitted, f.status(t, app.ID))
}

func TestParseScoringAnswer(t *testing.T) {
	req, err := parseScoringAnswer("```\n{\"score\": 12.5, \"cv_data\": {\"skills\": [\"sql\"]}}\n```")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, *req.Score, 0.001)
	assert.JSONEq(t, `{"skills":["sql"]}`, string(req.CvData))

	_, err = parseScoringAnswer("I think the candidate is good")
	assert.ErrorIs(t, err, apperrors.ErrInvalidScoringPayload)
}
