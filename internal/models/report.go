package models

import (
	"math"
	"time"
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func atLeastOne(v int64) float64 {
	if v < 1 {
		return 1
	}
	return float64(v)
}

// EngagementRate is (likes+comments)/views*100 with views floored at 1.
func EngagementRate(likes, comments, views int64) float64 {
	return Round2(float64(likes+comments) / atLeastOne(views) * 100)
}

// EngagementTotals are summed counters over a set of stories.
type EngagementTotals struct {
	TotalViews    int64 `json:"total_views"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	TotalShares   int64 `json:"total_shares"`
}

// PerformanceMetrics are the derived author performance figures.
type PerformanceMetrics struct {
	AvgTime         float64 `json:"avg_time"`
	CompletionRate  float64 `json:"completion_rate"`
	BounceRate      float64 `json:"bounce_rate"`
	EngagementScore float64 `json:"engagement_score"`
}

// Metrics derives the performance figures from totals.
func (t EngagementTotals) Metrics() PerformanceMetrics {
	views := atLeastOne(t.TotalViews)
	completion := Round2(float64(t.TotalLikes+t.TotalComments+t.TotalShares) / views * 100)
	weighted := float64(t.TotalLikes)*0.3 + float64(t.TotalComments)*0.3 +
		float64(t.TotalShares)*0.2 + float64(t.TotalViews)*0.2
	return PerformanceMetrics{
		AvgTime:         Round2(float64(t.TotalLikes+t.TotalComments) / views * 3),
		CompletionRate:  completion,
		BounceRate:      Round2(math.Max(0, 100-completion)),
		EngagementScore: Round2(weighted / views * 100),
	}
}

// StatusCounts counts stories per status.
type StatusCounts struct {
	Total     int64 `json:"total_stories"`
	Published int64 `json:"published_stories"`
	Scheduled int64 `json:"scheduled_stories"`
	Draft     int64 `json:"draft_stories"`
}

// AuthorStats feeds the author dashboard.
type AuthorStats struct {
	StatusCounts
	EngagementTotals
	TopStories []Story `json:"top_stories"`
}

// TopStory is a story ranked by views.
type TopStory struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Views      int64   `json:"views"`
	Likes      int64   `json:"likes"`
	Comments   int64   `json:"comments"`
	Engagement float64 `json:"engagement" gorm:"-"`
}

// AuthorPerformance is an author ranked by average views.
type AuthorPerformance struct {
	Name          string  `json:"name"`
	ProfilePic    *string `json:"profile_pic"`
	Stories       int64   `json:"stories"`
	AvgViews      float64 `json:"avg_views"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// LabelCount is one bar or slice of a chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// LocationShare is a country with its share of users among the top countries.
type LocationShare struct {
	Country    string  `json:"country"`
	Percentage float64 `json:"percentage"`
}

// LocationShares converts counts into percentages of their sum.
func LocationShares(counts []LabelCount) []LocationShare {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	out := make([]LocationShare, 0, len(counts))
	for _, c := range counts {
		out = append(out, LocationShare{
			Country:    c.Label,
			Percentage: Round2(float64(c.Count) / atLeastOne(total) * 100),
		})
	}
	return out
}

// ChartSeries is a labels/values pair as consumed by the dashboard charts.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Images []string  `json:"images,omitempty"`
}

// SeriesFromCounts turns label counts into a chart series.
func SeriesFromCounts(counts []LabelCount) ChartSeries {
	s := ChartSeries{Labels: make([]string, 0, len(counts)), Data: make([]float64, 0, len(counts))}
	for _, c := range counts {
		s.Labels = append(s.Labels, c.Label)
		s.Data = append(s.Data, float64(c.Count))
	}
	return s
}

// DailyTraffic is the summed engagement of stories last updated on Date.
type DailyTraffic struct {
	Date     time.Time
	Views    int64
	Likes    int64
	Comments int64
}

// TrafficSeries is the admin traffic chart.
type TrafficSeries struct {
	Labels   []string `json:"labels"`
	Views    []int64  `json:"views"`
	Likes    []int64  `json:"likes"`
	Comments []int64  `json:"comments"`
}

// TrafficDays is the number of days shown on the traffic chart, today included.
const TrafficDays = 6

// BuildTrafficSeries lays rows onto a continuous run of days ending today,
// filling days without rows with zeros.
func BuildTrafficSeries(rows []DailyTraffic, today time.Time) TrafficSeries {
	byDay := make(map[string]DailyTraffic, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format("2006-01-02")] = r
	}
	s := TrafficSeries{
		Labels:   make([]string, 0, TrafficDays),
		Views:    make([]int64, 0, TrafficDays),
		Likes:    make([]int64, 0, TrafficDays),
		Comments: make([]int64, 0, TrafficDays),
	}
	for i := TrafficDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		r := byDay[day]
		s.Labels = append(s.Labels, day)
		s.Views = append(s.Views, r.Views)
		s.Likes = append(s.Likes, r.Likes)
		s.Comments = append(s.Comments, r.Comments)
	}
	return s
}

// AdminDashboard is the payload of the admin landing page.
type AdminDashboard struct {
	Stats struct {
		EngagementTotals
		AvgEngagement float64 `json:"avg_engagement"`
	} `json:"stats"`
	Stories             StatusCounts        `json:"stories"`
	Users               UserStats           `json:"users"`
	TopStories          []TopStory          `json:"top_stories"`
	AuthorPerformance   []AuthorPerformance `json:"author_performance"`
	ContentDistribution ChartSeries         `json:"content_distribution"`
	GenderDistribution  ChartSeries         `json:"gender_distribution"`
	TopLocations        []LocationShare     `json:"top_locations"`
	RecentStories       []StoryWithAuthor   `json:"recent_stories"`
	RecentUsers         []User              `json:"recent_users"`
}

// ReaderStats summarises a reader's engagement.
type ReaderStats struct {
	LikesGiven    int64 `json:"likes_given"`
	CommentsCount int64 `json:"comments_count"`
	StoriesRead   int64 `json:"stories_read"`
}

// ActivityCounts are the engagement actions performed by a user.
type ActivityCounts struct {
	LikesGiven   int64 `json:"likes_given"`
	SharesMade   int64 `json:"shares_made"`
	CommentsMade int64 `json:"comments_made"`
	ViewsMade    int64 `json:"views_made"`
}
