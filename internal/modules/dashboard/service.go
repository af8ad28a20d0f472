package dashboard

import (
	"context"
	"time"

	"cleanops/internal/repository"
)

// StatsSource is the aggregate query surface behind the dashboard.
type StatsSource interface {
	StatusCounts(ctx context.Context, from, to time.Time) ([]repository.StatusCount, error)
	RatingsByProperty(ctx context.Context, from, to time.Time) ([]repository.PropertyRating, error)
	HousekeeperLoads(ctx context.Context, day time.Time) ([]repository.HousekeeperLoad, error)
}

type Service struct {
	stats StatsSource
}

func NewService(stats StatsSource) *Service {
	return &Service{stats: stats}
}

// Overview assembles the manager snapshot for [from, to). The housekeeper
// load table always reflects the window's first day.
func (s *Service) Overview(ctx context.Context, from, to time.Time) (*OverviewResponse, error) {
	counts, err := s.stats.StatusCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	ratings, err := s.stats.RatingsByProperty(ctx, from, to)
	if err != nil {
		return nil, err
	}
	loads, err := s.stats.HousekeeperLoads(ctx, from)
	if err != nil {
		return nil, err
	}

	out := &OverviewResponse{
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
		StatusCounts: make([]StatusCountView, 0, len(counts)),
		Ratings:      make([]PropertyRatingView, 0, len(ratings)),
		Loads:        make([]HousekeeperLoadView, 0, len(loads)),
	}
	for _, c := range counts {
		out.StatusCounts = append(out.StatusCounts, StatusCountView{Status: c.Status, Count: c.Count})
	}
	for _, r := range ratings {
		out.Ratings = append(out.Ratings, PropertyRatingView{
			PropertyID:   r.PropertyID,
			PropertyName: r.PropertyName,
			AvgRating:    r.AvgRating,
			Reviewed:     r.Reviewed,
		})
	}
	for _, l := range loads {
		out.Loads = append(out.Loads, HousekeeperLoadView{
			HousekeeperID:   l.HousekeeperID,
			HousekeeperName: l.HousekeeperName,
			Scheduled:       l.Scheduled,
			Completed:       l.Completed,
		})
	}
	return out, nil
}
