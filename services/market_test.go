package services

import (
	"reflect"
	"testing"
)

func TestMarketAnalysis(t *testing.T) {
	db := openTestDB(t)
	for i, c := range []string{"software", "software", "software", "finance", "finance", "health", "social", "education", "gaming"} {
		insertTopic(t, db, topicFixture{name: c + string(rune('a'+i)), category: c})
	}
	insertTopic(t, db, topicFixture{
		name: "Trend A", category: "finance",
		trend:      `[{"month":"2024-01-10","mentions":5},{"month":"2024-02-10","mentions":7},{"month":"2023-12-01","mentions":100}]`,
		painPoints: `[{"text":"a"},{"text":"b"},{"text":"c"}]`,
	})
	insertTopic(t, db, topicFixture{
		name: "Trend B", category: "health",
		trend:      `[{"month":"2024-02","mentions":3},{"month":"2024-03-01","mentions":1},{"month":"2024-04-01","mentions":1},{"month":"2024-05-01","mentions":1},{"month":"2024-06-01","mentions":2}]`,
		painPoints: `[{"text":"x"}]`,
	})
	svc := newTestTopicService(db)

	got, err := svc.MarketAnalysis(background())
	if err != nil {
		t.Fatalf("MarketAnalysis: %v", err)
	}

	dist := got.CategoryDistribution
	if len(dist) != 5 {
		t.Fatalf("expected top 5 categories, got %+v", dist)
	}
	if dist[0].Category != "finance" || dist[0].Count != 3 || dist[1].Category != "software" || dist[1].Count != 3 {
		t.Errorf("unexpected leaders %+v", dist[:2])
	}
	if dist[2].Category != "health" || dist[2].Count != 2 {
		t.Errorf("unexpected third place %+v", dist[2])
	}

	trends := got.GrowthTrends
	if len(trends) != 6 {
		t.Fatalf("expected 6 months, got %+v", trends)
	}
	if trends[0].Period != "2024-01" || trends[0].Month != "Jan" || trends[0].Growth != 5 {
		t.Errorf("unexpected first month %+v", trends[0])
	}
	if trends[1].Period != "2024-02" || trends[1].Growth != 10 {
		t.Errorf("expected February to sum both topics, got %+v", trends[1])
	}
	if trends[5].Period != "2024-06" || trends[5].Month != "Jun" {
		t.Errorf("unexpected last month %+v", trends[5])
	}

	pains := got.PainPointsByCategory
	if len(pains) != 2 {
		t.Fatalf("expected only categories with pain points, got %+v", pains)
	}
	if pains[0].Category != "finance" || pains[0].PainPoints != 3 || pains[1].Category != "health" || pains[1].PainPoints != 1 {
		t.Errorf("unexpected pain point ranking %+v", pains)
	}
}

func TestMarketAnalysis_EmptyDatabase(t *testing.T) {
	got, err := newTestTopicService(openTestDB(t)).MarketAnalysis(background())
	if err != nil {
		t.Fatalf("MarketAnalysis: %v", err)
	}
	if got.CategoryDistribution == nil || got.GrowthTrends == nil || got.PainPointsByCategory == nil {
		t.Fatalf("expected empty arrays, got %+v", got)
	}
}

func TestMarketAnalysis_SkipsInvalidRows(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{
		name: "Good", category: "software",
		trend:      `[{"month":"2024-03","mentions":4}]`,
		painPoints: `[{"text":"slow"},{"count":2},{"text":""},{"text":"buggy"}]`,
	})
	insertTopic(t, db, topicFixture{name: "Bad trend", category: "finance", trend: `[{`, painPoints: `[{"text":"fees"}]`})
	insertTopic(t, db, topicFixture{name: "Bad pains", category: "health", trend: `[{"month":"2024-03","mentions":1}]`, painPoints: `{"text":`})
	insertTopic(t, db, topicFixture{name: "No pains", category: "gaming"})

	got, err := newTestTopicService(db).MarketAnalysis(background())
	if err != nil {
		t.Fatalf("MarketAnalysis: %v", err)
	}
	if len(got.CategoryDistribution) != 4 {
		t.Errorf("expected all four categories counted, got %+v", got.CategoryDistribution)
	}
	if len(got.GrowthTrends) != 1 || got.GrowthTrends[0].Period != "2024-03" || got.GrowthTrends[0].Growth != 5 {
		t.Errorf("unexpected growth trends %+v", got.GrowthTrends)
	}
	want := []CategoryPainPoints{{Category: "software", PainPoints: 2}, {Category: "finance", PainPoints: 1}}
	if !reflect.DeepEqual(got.PainPointsByCategory, want) {
		t.Errorf("pain points = %+v, want %+v", got.PainPointsByCategory, want)
	}
}

func TestMonthLabel(t *testing.T) {
	cases := map[string]string{"2024-01": "Jan", "2023-12": "Dec", "week-1": "week-1"}
	for in, want := range cases {
		if got := monthLabel(in); got != want {
			t.Errorf("monthLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
