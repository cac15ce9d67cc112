package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/cache"
	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	PathMajors     = "/api/majors"
	majorsCacheKey = "lookup:majors"
)

// LookupService serves reference data shared by every candidate.
type LookupService interface {
	Majors(ctx context.Context, api apiclient.API) ([]models.Major, error)
}

type lookupService struct {
	cache cache.Cache
	ttl   time.Duration
	log   *logrus.Entry
}

func NewLookupService(c cache.Cache, ttl time.Duration, l logrus.FieldLogger) LookupService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &lookupService{cache: c, ttl: ttl, log: logger.Component(l, "lookup")}
}

// Majors reads through the cache. Cache failures fall back to the API.
func (s *lookupService) Majors(ctx context.Context, api apiclient.API) ([]models.Major, error) {
	const op = "LookupService.Majors"

	var majors []models.Major
	hit, err := s.cache.GetJSON(ctx, majorsCacheKey, &majors)
	if err != nil {
		s.log.WithError(err).Warn("majors cache read failed")
	}
	if hit {
		return majors, nil
	}

	if err := api.Get(ctx, PathMajors, &majors); err != nil {
		return nil, utils.E(utils.CodeOf(err), op, apiclient.ServerMessage(err, "Gagal memuat daftar jurusan."), err)
	}
	if majors == nil {
		majors = []models.Major{}
	}
	if err := s.cache.SetJSON(ctx, majorsCacheKey, majors, s.ttl); err != nil {
		s.log.WithError(err).Warn("majors cache write failed")
	}
	return majors, nil
}
