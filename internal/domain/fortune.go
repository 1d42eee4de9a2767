package domain

import (
	"fmt"
	"strings"
)

// Tier is a named automation-risk bracket.
type Tier struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// NPCLevel is the meme-flavored sibling of Tier shown on the result page.
type NPCLevel struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var automationTiers = [5]Tier{
	{Name: "Indestructible Career", Description: "You're basically a unicorn. AI fears YOU.", Emoji: "🦄"},
	{Name: "Safe & Sound", Description: "Sleep well tonight, you're good for decades.", Emoji: "😴"},
	{Name: "Safe for a While", Description: "You've got time, but maybe learn some new tricks.", Emoji: "⏰"},
	{Name: "The Clock is Ticking", Description: "Start planning your escape route now.", Emoji: "⏰"},
	{Name: "Terminator is at Your Front Door", Description: "RIP. It was nice knowing you.", Emoji: "🤖"},
}

var npcLevels = [5]NPCLevel{
	{Level: 1, Name: "Main Character", Description: "You're the protagonist of your own story"},
	{Level: 2, Name: "Supporting Cast", Description: "Important but not the star"},
	{Level: 3, Name: "Background Character", Description: "You exist, that's something"},
	{Level: 4, Name: "NPC", Description: "Generic dialogue options"},
	{Level: 5, Name: "Ultimate NPC", Description: "You are the Wojak"},
}

// RiskTier maps an automation risk percentage onto one of the five named
// tiers. Breakpoints are 20/40/60/80; the function is total over any int.
func RiskTier(risk int) Tier {
	switch {
	case risk <= 20:
		return automationTiers[0]
	case risk <= 40:
		return automationTiers[1]
	case risk <= 60:
		return automationTiers[2]
	case risk <= 80:
		return automationTiers[3]
	default:
		return automationTiers[4]
	}
}

// NPCTier maps an automation risk percentage onto the NPC scale using the
// same breakpoints as RiskTier.
func NPCTier(risk int) NPCLevel {
	switch {
	case risk <= 20:
		return npcLevels[0]
	case risk <= 40:
		return npcLevels[1]
	case risk <= 60:
		return npcLevels[2]
	case risk <= 80:
		return npcLevels[3]
	default:
		return npcLevels[4]
	}
}

// AutomationRisk computes the fallback automation-risk percentage from the
// job title and self-reported AI skill level. Deterministic and pure; the
// narrative template depends on it byte-for-byte.
func AutomationRisk(jobTitle, aiSkills string) int {
	title := strings.ToLower(jobTitle)
	risk := 30

	switch {
	case containsAny(title, "data entry", "cashier", "receptionist"):
		risk += 40
	case containsAny(title, "analyst", "accountant", "bookkeeper"):
		risk += 25
	case containsAny(title, "developer", "engineer", "designer"):
		risk += 15
	case containsAny(title, "manager", "director", "executive"):
		risk += 5
	case containsAny(title, "teacher", "nurse", "therapist"):
		risk += 10
	}

	switch aiSkills {
	case "expert":
		risk -= 20
	case "intermediate":
		risk -= 10
	case "beginner":
		risk -= 5
	}

	return clamp(risk, 5, 95)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AutomationAdvice returns the advice sentence appended to the fallback
// narrative.
func AutomationAdvice(risk int) string {
	switch {
	case risk > 70:
		return "Consider upskilling in AI-resistant areas like creativity, emotional intelligence, or complex problem-solving."
	case risk > 40:
		return "You're in a moderate risk zone. Focus on developing complementary AI skills."
	default:
		return "You're in a relatively safe position. Keep learning to stay ahead!"
	}
}

// RiskLevel buckets a risk percentage into low/medium/high.
func RiskLevel(risk int) string {
	switch {
	case risk > 60:
		return "high"
	case risk > 30:
		return "medium"
	default:
		return "low"
	}
}

// Outlook buckets a risk percentage into the outlook labels.
func Outlook(risk int) string {
	switch {
	case risk > 60:
		return "concerning"
	case risk > 30:
		return "neutral"
	default:
		return "positive"
	}
}

// FallbackFortune computes a fortune locally when the scoring service is
// unreachable. The resilience score is 100 minus the automation risk with a
// floor of 10.
func FallbackFortune(answers QuizAnswers) FortuneResult {
	risk := AutomationRisk(answers.JobTitle, answers.AISkills)
	score := 100 - risk
	if score < 10 {
		score = 10
	}

	return FortuneResult{
		Score: score,
		Narrative: fmt.Sprintf(
			"Based on your role as a %s with %s AI skills, you have a %d%% automation risk. %s",
			answers.JobTitle, answers.AISkills, risk, AutomationAdvice(risk),
		),
		RiskLevel: RiskLevel(risk),
		Outlook:   Outlook(risk),
		Factors: Factors{
			AutomationRisk:   risk,
			GrowthProjection: 5,
			SkillsAdaptation: "Medium",
			SalaryTrend:      0,
		},
		SalaryAnalysis: SalaryAnalysis{
			UserComparison: UserComparison{
				UserSalaryRange: answers.CurrentSalary,
				Percentile:      50,
			},
		},
		JobData: JobData{
			AutomationRisk:   risk,
			GrowthProjection: 5,
			SkillsNeeded:     "Unknown",
			Industry:         "Unknown",
			Location:         answers.Location,
		},
		DataSource: "fallback",
		Tier:       "free",
	}
}

// BuildNFTMetadata constructs the Prophecy metadata object with its five
// fixed attributes.
func BuildNFTMetadata(score int, occupation, riskLevel, outlook, imageURL string) NFTMetadata {
	return NFTMetadata{
		Name:        fmt.Sprintf("AI Fortune Prophecy - %s", occupation),
		Description: fmt.Sprintf("Your career resilience assessment in the age of AI. Resilience Score: %d/100", score),
		Image:       imageURL,
		Attributes: []NFTAttribute{
			{TraitType: "Resilience Score", Value: score},
			{TraitType: "Occupation", Value: occupation},
			{TraitType: "Risk Level", Value: riskLevel},
			{TraitType: "Outlook", Value: outlook},
			{TraitType: "Minted On", Value: "Base L2"},
		},
	}
}
