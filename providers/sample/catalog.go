package sample

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"idea-engine/config"
	"idea-engine/models"
)

type seedTopic struct {
	name         string
	category     string
	mentionCount int
	growth       float64
}

var catalog = []seedTopic{
	{"AI Code Assistants", "software", 1250, 85.5},
	{"No-Code Development", "software", 980, 72.3},
	{"Personal Finance Apps", "finance", 1100, 45.8},
	{"Mental Health Tracking", "health", 1500, 92.1},
	{"Remote Work Tools", "productivity", 2200, 65.4},
	{"Online Learning Platforms", "education", 1800, 58.7},
	{"Subscription Management", "finance", 950, 42.3},
	{"Content Creation Tools", "entertainment", 1650, 78.9},
	{"Social Media Analytics", "social", 1200, 53.2},
	{"E-commerce Platforms", "ecommerce", 1400, 48.6},
}

var painPointTemplates = []string{
	"I'm frustrated with the lack of good %s solutions.",
	"Why is it so hard to find a decent %s tool?",
	"The current %s options are too expensive and complicated.",
	"I hate how %s tools are so unintuitive.",
	"There's a serious gap in the market for %s in %s.",
	"I'm tired of cobbling together multiple tools for %s.",
	"The learning curve for %s tools is too steep.",
	"I wish there was a simpler way to handle %s.",
	"Current %s solutions are missing key features.",
	"I can't believe how outdated most %s tools are.",
}

var solutionTemplates = []string{
	"We need a %s tool that's actually user-friendly.",
	"I'd pay good money for a %s solution that just works.",
	"Looking for recommendations for a simple %s tool.",
	"What's the best %s option for small businesses?",
	"Is there a %s tool that integrates with everything else I use?",
	"Need a %s solution that doesn't require a PhD to use.",
	"What do you use for %s? The options seem endless.",
	"Seeking a %s tool with good customer support.",
}

type ideaTemplate struct {
	title, text, description string
}

var ideaTemplates = []ideaTemplate{
	{"%s Simplified", "A streamlined %s tool for %s professionals.", "This app would focus on simplifying the %s process with an intuitive interface and core features that actually matter."},
	{"%s AI Assistant", "An AI-powered assistant for %s.", "Leveraging AI to automate and optimize %s tasks, saving users time and reducing errors."},
	{"%s All-in-One", "Comprehensive %s platform that replaces multiple tools.", "A single platform that combines all the necessary features for %s, eliminating the need for multiple subscriptions."},
	{"%s for Teams", "Collaborative %s platform for teams.", "Built specifically for team collaboration, this tool would make %s a seamless process across departments."},
	{"Budget %s", "Affordable %s solution for startups and small businesses.", "A cost-effective alternative to expensive enterprise %s tools, with all the essential features."},
}

// Provider liefert einen festen Katalog von Beispiel-Topics. Bei gleichem Seed und gleicher
// Referenzzeit ist das Ergebnis identisch.
type Provider struct {
	Seed   int64
	Logger *zap.Logger
	Now    func() time.Time
}

// NewProvider erstellt den Sample-Provider.
func NewProvider(cfg *config.Config, logger *zap.Logger) *Provider {
	return &Provider{Seed: cfg.SampleSeed, Logger: logger, Now: time.Now}
}

// Name gibt "sample" zurück.
func (p *Provider) Name() string { return "sample" }

// Collect erzeugt den Katalog samt Trenddaten, Snippets und Opportunity-Scores.
func (p *Provider) Collect(ctx context.Context) ([]*models.CollectedTopic, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	now := p.Now().UTC()

	out := make([]*models.CollectedTopic, 0, len(catalog))
	for _, seed := range catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lower := strings.ToLower(seed.name)
		topic := &models.CollectedTopic{
			Name:             seed.name,
			Category:         seed.category,
			MentionCount:     seed.mentionCount,
			GrowthPercentage: seed.growth,
			TrendData:        trendData(rng, now, seed.mentionCount, seed.growth),
			PainPoints:       painPoints(rng, lower, seed.category),
			SolutionRequests: solutionRequests(rng, lower),
			AppIdeas:         appIdeas(rng, seed.name, lower, seed.category),
			OpportunityScores: models.ScoreOpportunity(models.ScoreInputs{
				MentionCount:     seed.mentionCount,
				GrowthPercentage: seed.growth,
				Competition:      uniform(rng, 40, 90),
				Monetization:     uniform(rng, 50, 95),
				Engagement:       uniform(rng, 60, 95),
			}),
		}
		out = append(out, topic)
	}
	p.Logger.Debug("Sample catalog generated", zap.Int("topics", len(out)), zap.Int64("seed", p.Seed))
	return out, nil
}

// trendData erzeugt sechs Monatswerte im Abstand von 30 Tagen; der letzte Wert ist mentionCount.
func trendData(rng *rand.Rand, now time.Time, mentionCount int, growth float64) []models.TrendPoint {
	base := float64(mentionCount) / (1 + growth/100)
	points := make([]models.TrendPoint, 0, 6)
	for i := 0; i < 6; i++ {
		month := now.AddDate(0, 0, -30*(5-i)).Format("2006-01-02")
		mentions := mentionCount
		if i < 5 {
			mentions = int(base * (1 + float64(i)/5*(growth/100)) * uniform(rng, 0.9, 1.1))
		}
		points = append(points, models.TrendPoint{Month: month, Mentions: mentions})
	}
	return points
}

func painPoints(rng *rand.Rand, lower, category string) []models.Mention {
	out := make([]models.Mention, 0, len(painPointTemplates))
	for _, tmpl := range painPointTemplates {
		var text string
		if strings.Count(tmpl, "%s") == 2 {
			text = fmt.Sprintf(tmpl, lower, category)
		} else {
			text = fmt.Sprintf(tmpl, lower)
		}
		frustration := models.Round1(uniform(rng, 60, 95))
		out = append(out, models.Mention{
			Text:             text,
			Count:            intn(rng, 5, 50),
			Examples:         []string{},
			FrustrationScore: &frustration,
		})
	}
	return out
}

func solutionRequests(rng *rand.Rand, lower string) []models.Mention {
	out := make([]models.Mention, 0, len(solutionTemplates))
	for _, tmpl := range solutionTemplates {
		out = append(out, models.Mention{
			Text:     fmt.Sprintf(tmpl, lower),
			Count:    intn(rng, 3, 30),
			Examples: []string{},
		})
	}
	return out
}

func appIdeas(rng *rand.Rand, name, lower, category string) []models.Mention {
	out := make([]models.Mention, 0, len(ideaTemplates))
	for _, tmpl := range ideaTemplates {
		text := fmt.Sprintf(tmpl.text, lower)
		if strings.Count(tmpl.text, "%s") == 2 {
			text = fmt.Sprintf(tmpl.text, lower, category)
		}
		out = append(out, models.Mention{
			Title:       fmt.Sprintf(tmpl.title, name),
			Text:        text,
			Description: fmt.Sprintf(tmpl.description, lower),
			Count:       intn(rng, 2, 15),
			Examples:    []string{},
		})
	}
	return out
}

// intn liefert eine Zufallszahl im geschlossenen Intervall [lo, hi].
func intn(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
