package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

func TestMajorsCacheHit(t *testing.T) {
	c := new(MockCache)
	api := new(MockAPI)
	s := NewLookupService(c, time.Hour, logger.Discard())

	c.On("GetJSON", mock.Anything, majorsCacheKey, mock.Anything).Return(`[{"id":1,"name":"Informatika"}]`, nil)

	majors, err := s.Majors(context.Background(), api)
	require.NoError(t, err)
	require.Len(t, majors, 1)
	assert.Equal(t, "Informatika", majors[0].Name)
	api.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestMajorsMissFetchesAndStores(t *testing.T) {
	c := new(MockCache)
	api := new(MockAPI)
	s := NewLookupService(c, time.Hour, logger.Discard())

	c.On("GetJSON", mock.Anything, majorsCacheKey, mock.Anything).Return(false, nil)
	api.On("Get", mock.Anything, PathMajors, mock.Anything).Return(`[{"id":2,"name":"Akuntansi"}]`, nil)
	c.On("SetJSON", mock.Anything, majorsCacheKey, []models.Major{{ID: 2, Name: "Akuntansi"}}, time.Hour).Return(nil).Once()

	majors, err := s.Majors(context.Background(), api)
	require.NoError(t, err)
	assert.Len(t, majors, 1)
	c.AssertExpectations(t)
}

func TestMajorsCacheDownFallsBackToAPI(t *testing.T) {
	c := new(MockCache)
	api := new(MockAPI)
	s := NewLookupService(c, time.Hour, logger.Discard())

	c.On("GetJSON", mock.Anything, majorsCacheKey, mock.Anything).Return(false, errors.New("dial tcp: refused"))
	api.On("Get", mock.Anything, PathMajors, mock.Anything).Return("null", nil)
	c.On("SetJSON", mock.Anything, majorsCacheKey, mock.Anything, time.Hour).Return(errors.New("dial tcp: refused"))

	majors, err := s.Majors(context.Background(), api)
	require.NoError(t, err)
	assert.NotNil(t, majors)
	assert.Empty(t, majors)
}

func TestMajorsUpstreamFailure(t *testing.T) {
	c := new(MockCache)
	api := new(MockAPI)
	s := NewLookupService(c, time.Hour, logger.Discard())

	c.On("GetJSON", mock.Anything, majorsCacheKey, mock.Anything).Return(false, nil)
	api.On("Get", mock.Anything, PathMajors, mock.Anything).
		Return(nil, utils.E(utils.CodeUnavailable, "Client.Do", "down", nil))

	_, err := s.Majors(context.Background(), api)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	c.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
