package kafka

import "strings"

// ============================================
// Kafka Topics
// ============================================

const (
	// Quote topics, one per trend type
	TopicGainers = "Gainers"
	TopicLosers  = "Losers"
	TopicActive  = "Active"
)

// ============================================
// Message Keys (become the status column)
// ============================================

const (
	StatusGain   = "GAIN"
	StatusLose   = "LOSE"
	StatusActive = "ACTIVE"
)

// ============================================
// Trend Types
// ============================================

const (
	TrendGainers = "GAINERS"
	TrendLosers  = "LOSERS"
	TrendActive  = "ACTIVE"
)

// TopicForTrend maps a trend type, case-insensitively, to its quote topic.
// Unknown trends read the Active topic.
func TopicForTrend(trend string) string {
	switch strings.ToUpper(trend) {
	case TrendGainers:
		return TopicGainers
	case TrendLosers:
		return TopicLosers
	default:
		return TopicActive
	}
}

// StatusForTopic returns the message key a publisher uses for a quote topic.
func StatusForTopic(topic string) string {
	switch topic {
	case TopicGainers:
		return StatusGain
	case TopicLosers:
		return StatusLose
	default:
		return StatusActive
	}
}
