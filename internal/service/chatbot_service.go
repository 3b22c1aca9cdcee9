package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bluedata/analytics-backend-go/internal/analytics"
	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// ChatbotService answers free-text questions with canned responses chosen
// by keyword. It is pure presentation: every number comes from the current
// snapshot's derived records and aggregates, never recomputed risk rules.
type ChatbotService struct {
	cfg   *config.Config
	store *snapshot.Store
}

// NewChatbotService creates a chatbot service.
func NewChatbotService(cfg *config.Config, store *snapshot.Store) *ChatbotService {
	return &ChatbotService{cfg: cfg, store: store}
}

// Answer matches the query against keyword rules and formats the matching
// canned response.
func (s *ChatbotService) Answer(query string) (*models.ChatbotAnswer, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}

	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "revenue") || strings.Contains(q, "gallons"):
		return s.volumeTrend(snap)
	case strings.Contains(q, "missed") || strings.Contains(q, "inspect"):
		return s.missedCleanings(snap)
	case strings.Contains(q, "zone") || strings.Contains(q, "area"):
		return s.riskAreas(snap)
	case strings.Contains(q, "outlet") && strings.Contains(q, "risk"):
		return s.riskAssessment(snap)
	default:
		return s.keyInsights(snap)
	}
}

func (s *ChatbotService) volumeTrend(snap *snapshot.Snapshot) (*models.ChatbotAnswer, error) {
	byMonth, err := analytics.Aggregate(snap.Records, models.GroupByMonth)
	if err != nil {
		return nil, err
	}
	months := analytics.SortedKeys(byMonth)
	if len(months) < 2 {
		return s.keyInsights(snap)
	}

	prev := byMonth[months[len(months)-2]].TotalGallons
	last := byMonth[months[len(months)-1]].TotalGallons
	direction := "increased"
	if last < prev {
		direction = "decreased"
	}

	return &models.ChatbotAnswer{
		Answer: fmt.Sprintf("Gallons collected %s from %.0f to %.0f", direction, prev, last),
		Recommendations: []string{
			"Optimize collection routes",
			"Increase service frequency",
			"Monitor outlet performance",
		},
	}, nil
}

func (s *ChatbotService) missedCleanings(snap *snapshot.Snapshot) (*models.ChatbotAnswer, error) {
	offenders := analytics.TopOutletsByMissedCleanings(snap.Records, 3)
	overdue := analytics.OverdueOutlets(snap.Records, OverdueDaysThreshold, 0)

	var totalMissed int
	for _, rec := range snap.Records {
		totalMissed += rec.MissedCount
	}

	insights := []string{
		fmt.Sprintf("Missed cleanings on record: %d", totalMissed),
		fmt.Sprintf("Outlets overdue for service: %d", len(overdue)),
	}
	var actions []string
	for _, o := range offenders {
		insights = append(insights, fmt.Sprintf("%s missed %d cleanings", o.OutletID, o.MissedCleanings))
		actions = append(actions, fmt.Sprintf("Inspect %s", o.OutletID))
	}

	return &models.ChatbotAnswer{
		Answer:          "Missed cleaning overview:",
		Insights:        insights,
		Recommendations: []string{"Schedule catch-up cleanings", "Review outlet service contracts"},
		ActionItems:     actions,
	}, nil
}

func (s *ChatbotService) riskAreas(snap *snapshot.Snapshot) (*models.ChatbotAnswer, error) {
	ranked := analytics.RankHighRisk(snap.Records, s.cfg.RiskThreshold)

	counts := make(map[string]int)
	for _, rec := range ranked {
		counts[rec.Area]++
	}
	areas := make([]string, 0, len(counts))
	for area := range counts {
		areas = append(areas, area)
	}
	sort.Slice(areas, func(i, j int) bool {
		if counts[areas[i]] != counts[areas[j]] {
			return counts[areas[i]] > counts[areas[j]]
		}
		return areas[i] < areas[j]
	})

	top := make(map[string]int)
	var actions []string
	for i, area := range areas {
		if i == 3 {
			break
		}
		top[area] = counts[area]
		if i < 2 {
			actions = append(actions, fmt.Sprintf("Focus on %s this week", area))
		}
	}

	return &models.ChatbotAnswer{
		Answer:          "High-risk areas needing attention:",
		HighRiskAreas:   top,
		Recommendations: []string{"Schedule inspections", "Allocate inspectors", "Preventive maintenance"},
		ActionItems:     actions,
	}, nil
}

func (s *ChatbotService) riskAssessment(snap *snapshot.Snapshot) (*models.ChatbotAnswer, error) {
	highRisk := len(analytics.RankHighRisk(snap.Records, s.cfg.RiskThreshold))
	outlets, gallons := totals(snap.Records)

	return &models.ChatbotAnswer{
		Answer: fmt.Sprintf("Current risk assessment: %d records need immediate attention", highRisk),
		Insights: []string{
			fmt.Sprintf("Total outlets: %d", outlets),
			fmt.Sprintf("High-risk records: %d", highRisk),
			fmt.Sprintf("Total gallons collected: %.0f", gallons),
		},
		Recommendations: []string{
			"Prioritize high-risk outlets",
			"Implement preventive maintenance",
			"Optimize collection schedules",
		},
	}, nil
}

func (s *ChatbotService) keyInsights(snap *snapshot.Snapshot) (*models.ChatbotAnswer, error) {
	highRisk := len(analytics.RankHighRisk(snap.Records, s.cfg.RiskThreshold))
	outlets, gallons := totals(snap.Records)

	return &models.ChatbotAnswer{
		Answer: "Key business insights:",
		Insights: []string{
			fmt.Sprintf("Total outlets: %d", outlets),
			fmt.Sprintf("Total gallons: %.0f", gallons),
			fmt.Sprintf("High-risk records: %d", highRisk),
		},
		Recommendations: []string{"Focus on efficiency", "Preventive maintenance", "Resource optimization"},
	}, nil
}

func totals(records []models.DerivedRecord) (outlets int, gallons float64) {
	set := make(map[string]struct{})
	for _, rec := range records {
		set[rec.OutletID] = struct{}{}
		gallons += rec.GallonsCollected
	}
	return len(set), gallons
}
