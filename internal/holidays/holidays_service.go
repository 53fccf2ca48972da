package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	holidayserrors "leavedesk/internal/holidays/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL = "https://date.nager.at/api/v3"
	cacheTTL       = 24 * time.Hour
)

func cacheKey(year int, countryCode string) string {
	return fmt.Sprintf("holidays:%d:%s", year, countryCode)
}

//go:generate mockgen -source=holidays_service.go -destination=mock/holidays_service_mock.go -package=mock
type Service interface {
	GetPublicHolidays(ctx context.Context, year int, countryCode string) ([]PublicHoliday, error)
}

type service struct {
	client  *http.Client
	rdb     *redis.Client
	sf      *singleflight.Group
	baseURL string
	logger  *zap.Logger
}

func NewService(rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithBaseURL(defaultBaseURL, rdb, logger...)
}

func NewServiceWithBaseURL(baseURL string, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("holidays.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holidays.service")
	}
	return &service{
		client:  &http.Client{Timeout: 10 * time.Second},
		rdb:     rdb,
		sf:      &singleflight.Group{},
		baseURL: baseURL,
		logger:  l,
	}
}

// GetPublicHolidays serves from the redis cache when possible and collapses
// concurrent identical lookups into a single upstream call. The lookup has no
// transactional relationship to leave-request state.
func (s *service) GetPublicHolidays(ctx context.Context, year int, countryCode string) ([]PublicHoliday, error) {
	key := cacheKey(year, countryCode)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var resp []PublicHoliday
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		resp, err := s.fetch(ctx, year, countryCode)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, payload, cacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PublicHoliday), nil
}

func (s *service) fetch(ctx context.Context, year int, countryCode string) ([]PublicHoliday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", s.baseURL, year, countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("holiday provider request failed",
			zap.Int("year", year),
			zap.String("country_code", countryCode),
			zap.Error(err),
		)
		return nil, holidayserrors.ErrProviderUnavailable
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, holidayserrors.ErrHolidaysNotFound
	}
	if res.StatusCode != http.StatusOK {
		s.logger.Error("holiday provider returned unexpected status",
			zap.Int("status", res.StatusCode),
			zap.String("country_code", countryCode),
		)
		return nil, holidayserrors.ErrProviderUnavailable
	}

	var resp []PublicHoliday
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, holidayserrors.ErrProviderUnavailable
	}

	return resp, nil
}
