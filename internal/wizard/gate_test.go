package wizard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const complete = `{"profile":true,"education":true,"skills":true,"work_experience":true,"achievements":true,
	"overall_complete":true,"existing_cv":null}`

func TestGenerateIsNoopWhenIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	generated, err := f.page.GenerateCV(ctx)
	require.NoError(t, err)
	assert.False(t, generated)

	f.api.onGet(PathCompleteness, `{"profile":true,"education":false,"overall_complete":false}`)
	require.NoError(t, f.page.CheckCompleteness(ctx))

	generated, err = f.page.GenerateCV(ctx)
	require.NoError(t, err)
	assert.False(t, generated)
	f.api.AssertNotCalled(t, "Get", mock.Anything, PathGenerateCV, mock.Anything)
	f.api.AssertNumberOfCalls(t, "Get", 1)
}

func TestGenerateSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.onGet(PathCompleteness, complete).Once()
	f.api.onGet(PathGenerateCV, `{"filename":"cv-andi.pdf","download_url":"https://files.example.com/cv-andi.pdf"}`).Once()
	f.api.onGet(PathCompleteness, `{"overall_complete":true,"existing_cv":{"filename":"cv-andi.pdf","download_url":"https://files.example.com/cv-andi.pdf"}}`).Once()

	require.NoError(t, f.page.CheckCompleteness(ctx))
	generated, err := f.page.GenerateCV(ctx)
	require.NoError(t, err)
	assert.True(t, generated)

	s, err := f.page.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, GateReady, s.Completeness.State)
	require.NotNil(t, s.Completeness.Banner)
	assert.Equal(t, BannerSuccess, s.Completeness.Banner.Kind)
	assert.Contains(t, s.Completeness.Banner.Message, "cv-andi.pdf")
	require.NotNil(t, s.Completeness.LastCV)

	assert.Empty(t, f.events.ofType(EventOpenURL))
	f.clock.Advance(time.Second)
	opened := f.events.ofType(EventOpenURL)
	require.Len(t, opened, 1)
	assert.Equal(t, "https://files.example.com/cv-andi.pdf", opened[0].URL)

	f.clock.Advance(2 * time.Second)
	f.api.AssertNumberOfCalls(t, "Get", 3)
	s, err = f.page.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, s.Completeness.Completeness)
	require.NotNil(t, s.Completeness.Completeness.ExistingCV)
	assert.Equal(t, "cv-andi.pdf", s.Completeness.Completeness.ExistingCV.Filename)
	assert.NotNil(t, s.Completeness.Banner)

	f.clock.Advance(2 * time.Second)
	s, err = f.page.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, s.Completeness.Banner)

	acts := f.activity.all()
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActionGenerate, acts[0].Action)
	assert.True(t, acts[0].OK)
}

func TestGenerateFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.onGet(PathCompleteness, complete)
	f.api.On("Get", mock.Anything, PathGenerateCV, mock.Anything).Return(&utils.AppError{
		Code: utils.CodeUnavailable,
		Op:   "Client.Do",
		Err:  &apiclient.APIError{Status: http.StatusInternalServerError, ServerMessage: "Template CV tidak tersedia."},
	}).Once()

	require.NoError(t, f.page.CheckCompleteness(ctx))
	generated, err := f.page.GenerateCV(ctx)
	require.Error(t, err)
	assert.False(t, generated)

	s, err := f.page.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, GateReady, s.Completeness.State)
	assert.True(t, s.Completeness.CanGenerate)
	require.NotNil(t, s.Completeness.Banner)
	assert.Equal(t, BannerError, s.Completeness.Banner.Kind)
	assert.Equal(t, "Template CV tidak tersedia.", s.Completeness.Banner.Message)

	f.clock.Advance(5 * time.Second)
	assert.Empty(t, f.events.ofType(EventOpenURL))
	f.api.AssertNumberOfCalls(t, "Get", 2)
}

func TestGenerateFailureFallsBackToGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.api.onGet(PathCompleteness, complete)
	f.api.On("Get", mock.Anything, PathGenerateCV, mock.Anything).
		Return(utils.E(utils.CodeUnavailable, "Client.Do", apiclient.MsgGeneric, nil))

	require.NoError(t, f.page.CheckCompleteness(context.Background()))
	_, err := f.page.GenerateCV(context.Background())
	require.Error(t, err)

	s, err := f.page.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, s.Completeness.Banner)
	assert.Equal(t, msgGenerateFailed, s.Completeness.Banner.Message)
}

func TestCheckFailure(t *testing.T) {
	f := newFixture(t)
	f.api.On("Get", mock.Anything, PathCompleteness, mock.Anything).
		Return(utils.E(utils.CodeTimeout, "Client.Do", apiclient.MsgTimeout, context.DeadlineExceeded))

	require.Error(t, f.page.CheckCompleteness(context.Background()))

	s, err := f.page.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, GateError, s.Completeness.State)
	assert.Equal(t, apiclient.MsgTimeout, s.Completeness.Error)
	assert.False(t, s.Completeness.CanGenerate)
}
