package analytics

import (
	"math"
	"sort"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// Sub-score calibration: the average at which each factor saturates its
// 100-point ceiling. 5 logins/day, 120 minutes/day, 50 interactions/day.
const (
	loginSaturationFactor       = 20
	timeSaturationDivisor       = 1.2
	interactionSaturationFactor = 2
)

// Trend ratio thresholds comparing second-half average activity to the
// first half of the window.
const (
	trendImprovingRatio = 1.10
	trendDecliningRatio = 0.90
)

// EngagementScore derives the multi-factor score for a user over the
// trailing window. Each sub-score is an independently normalized mean
// capped at 100; the overall score weights the four factors equally. An
// empty window yields an all-zero score with a stable trend.
func (e *Engine) EngagementScore(snap Snapshot, userID string, days int) models.EngagementScore {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := e.daysAgo(days)

	samples := make([]models.EngagementSample, 0, len(snap.Engagement))
	for _, sample := range snap.Engagement {
		if sample.UserID == userID && sample.Date >= cutoff {
			samples = append(samples, sample)
		}
	}

	score := models.EngagementScore{
		UserID:   userID,
		UserName: snap.UserName(userID),
		Trend:    models.TrendStable,
	}
	if len(samples) == 0 {
		return score
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Date < samples[j].Date
	})

	var loginSum, timeSum, interactionSum float64
	for _, sample := range samples {
		loginSum += float64(sample.LoginCount)
		timeSum += float64(sample.TimeSpentMinutes)
		interactionSum += float64(sample.InteractionCount)
	}
	count := float64(len(samples))

	loginScore := min100(loginSum / count * loginSaturationFactor)
	timeScore := min100(timeSum / count / timeSaturationDivisor)
	interactionScore := min100(interactionSum / count * interactionSaturationFactor)
	// Sampling density within the window, not behaviour quality.
	consistencyScore := min100(count / float64(days) * 100)

	score.LoginScore = int(math.Round(loginScore))
	score.TimeScore = int(math.Round(timeScore))
	score.InteractionScore = int(math.Round(interactionScore))
	score.ConsistencyScore = int(math.Round(consistencyScore))
	score.OverallScore = int(math.Round(
		0.25*loginScore + 0.25*timeScore + 0.25*interactionScore + 0.25*consistencyScore,
	))
	score.Trend = halfWindowTrend(samples)
	return score
}

// halfWindowTrend splits the chronologically ordered samples at the floor
// midpoint and compares per-half average activity (logins + interactions).
// An empty half divides by 1, so windows of 0 or 1 sample stay defined.
func halfWindowTrend(samples []models.EngagementSample) models.EngagementTrendDirection {
	midpoint := len(samples) / 2

	var firstSum, secondSum float64
	for i, sample := range samples {
		activity := float64(sample.LoginCount + sample.InteractionCount)
		if i < midpoint {
			firstSum += activity
		} else {
			secondSum += activity
		}
	}

	firstLen := midpoint
	if firstLen == 0 {
		firstLen = 1
	}
	secondLen := len(samples) - midpoint
	if secondLen == 0 {
		secondLen = 1
	}

	firstAvg := firstSum / float64(firstLen)
	secondAvg := secondSum / float64(secondLen)

	switch {
	case secondAvg > firstAvg*trendImprovingRatio:
		return models.TrendImproving
	case secondAvg < firstAvg*trendDecliningRatio:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// dailySampleScore is the simplified 3-factor score used by the engagement
// trend series: the unweighted mean of the login, time and interaction
// sub-scores, without the sampling-density factor.
func dailySampleScore(sample models.EngagementSample) float64 {
	loginScore := min100(float64(sample.LoginCount) * loginSaturationFactor)
	timeScore := min100(float64(sample.TimeSpentMinutes) / timeSaturationDivisor)
	interactionScore := min100(float64(sample.InteractionCount) * interactionSaturationFactor)
	return (loginScore + timeScore + interactionScore) / 3
}
