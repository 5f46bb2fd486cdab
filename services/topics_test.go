package services

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestList_CategoryFilterAndOrder(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{name: "Budget Apps", category: "finance", mentions: 100})
	insertTopic(t, db, topicFixture{name: "Meditation", category: "health", mentions: 500})
	insertTopic(t, db, topicFixture{name: "Sleep Trackers", category: "health", mentions: 900})
	insertTopic(t, db, topicFixture{name: "Fitness Logs", category: "health", mentions: 500})
	svc := newTestTopicService(db)

	got, err := svc.List(background(), TopicFilter{Category: "health"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Sleep Trackers", "Meditation", "Fitness Logs"}
	if len(got) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Title != name || got[i].Category != "health" {
			t.Errorf("position %d: expected %s, got %s (%s)", i, name, got[i].Title, got[i].Category)
		}
	}

	all, err := svc.List(background(), TopicFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 topics without filter, got %d", len(all))
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc := newTestTopicService(openTestDB(t))
	got, err := svc.List(background(), TopicFilter{Category: "none"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	b, _ := json.Marshal(got)
	if string(b) != "[]" {
		t.Fatalf("expected [], got %s", b)
	}
}

func TestList_SearchEscapesWildcards(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{name: "100% Remote Work", category: "productivity", mentions: 10})
	insertTopic(t, db, topicFixture{name: "1000 Remote Jobs", category: "productivity", mentions: 20})
	insertTopic(t, db, topicFixture{name: "AI Code Assistants", category: "software", mentions: 30})
	svc := newTestTopicService(db)

	got, err := svc.List(background(), TopicFilter{Search: "100%"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "100% Remote Work" {
		t.Fatalf("expected only the literal match, got %+v", got)
	}

	got, err = svc.List(background(), TopicFilter{Search: "SOFTWARE"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "AI Code Assistants" {
		t.Fatalf("expected a case-insensitive category match, got %+v", got)
	}
}

func TestList_DeepSearchMatchesSnippets(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{
		name: "Invoicing", category: "finance", mentions: 10,
		painPoints: `[{"text":"Chasing late payments is painful","count":3}]`,
	})
	insertTopic(t, db, topicFixture{
		name: "Broken", category: "finance", mentions: 5,
		painPoints: `not json`,
	})
	svc := newTestTopicService(db)

	got, err := svc.List(background(), TopicFilter{Search: "late payments"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("plain search should not look into snippets, got %d", len(got))
	}

	got, err = svc.List(background(), TopicFilter{Search: "late payments", DeepSearch: true})
	if err != nil {
		t.Fatalf("deep List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Invoicing" {
		t.Fatalf("expected Invoicing, got %+v", got)
	}
}

func TestList_TimeframeTrimsTrend(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{
		name: "Trend", category: "software", mentions: 10,
		trend: `[{"month":"2024-06-01","mentions":6},{"month":"2024-01-01","mentions":1},{"month":"2024-05-15","mentions":5}]`,
	})
	svc := newTestTopicService(db)

	got, err := svc.List(background(), TopicFilter{Timeframe: 30})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("timeframe must not filter rows, got %d", len(got))
	}
	trend := got[0].TrendData
	if len(trend) != 2 || trend[0].Month != "2024-05-15" || trend[1].Month != "2024-06-01" {
		t.Fatalf("unexpected trimmed trend %+v", trend)
	}

	got, _ = svc.List(background(), TopicFilter{})
	if len(got[0].TrendData) != 3 || got[0].TrendData[0].Month != "2024-01-01" {
		t.Fatalf("expected full sorted trend, got %+v", got[0].TrendData)
	}
}

func TestList_MalformedJSONFails(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{name: "Good", category: "software", mentions: 10})
	insertTopic(t, db, topicFixture{name: "Bad", category: "software", mentions: 5, trend: `{"broken"`})
	svc := newTestTopicService(db)

	if _, err := svc.List(background(), TopicFilter{}); !errors.Is(err, ErrCorruptTopic) {
		t.Fatalf("expected ErrCorruptTopic, got %v", err)
	}
}

func TestList_Idempotent(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{name: "A", category: "software", mentions: 10, scores: `{"total_score":80.5}`})
	insertTopic(t, db, topicFixture{name: "B", category: "finance", mentions: 10, trend: `[{"month":"2024-02","mentions":4}]`})
	svc := newTestTopicService(db)

	first, err := svc.List(background(), TopicFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	second, err := svc.List(background(), TopicFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("responses differ:\n%s\n%s", a, b)
	}
}

func TestGet_DecodesColumns(t *testing.T) {
	db := openTestDB(t)
	id := insertTopic(t, db, topicFixture{
		name: "AI Code Assistants", category: "software", mentions: 1250, growth: 85.5,
		painPoints: `[{"text":"Too expensive","mentions":7}]`,
		ideas:      `[{"title":"Copilot Lite","text":"Cheaper assistant","count":2}]`,
		scores:     `{"total_score":77.3,"market_score":50}`,
	})
	svc := newTestTopicService(db)

	got, err := svc.Get(background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "AI Code Assistants" || got.GrowthRate != 85.5 {
		t.Errorf("unexpected summary %+v", got.TopicSummary)
	}
	if len(got.PainPoints) != 1 || got.PainPoints[0].Count != 7 || got.PainPoints[0].Examples == nil {
		t.Errorf("unexpected pain points %+v", got.PainPoints)
	}
	if len(got.SolutionRequests) != 0 || got.SolutionRequests == nil {
		t.Errorf("expected empty solution requests, got %#v", got.SolutionRequests)
	}
	if len(got.AppIdeas) != 1 || got.AppIdeas[0].Title != "Copilot Lite" {
		t.Errorf("unexpected app ideas %+v", got.AppIdeas)
	}
	if got.OpportunityScores.TotalScore != 77.3 || got.OpportunityScores.MarketScore == nil {
		t.Errorf("unexpected scores %+v", got.OpportunityScores)
	}
}

func TestGet_NullColumnsReadAsEmpty(t *testing.T) {
	db := openTestDB(t)
	id := insertTopic(t, db, topicFixture{name: "Sparse", category: "social"})
	if err := db.Exec("UPDATE reddit_topics SET pain_points = NULL, trend_data = NULL, opportunity_scores = NULL WHERE id = ?", id).Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := newTestTopicService(db).Get(background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PainPoints == nil || len(got.PainPoints) != 0 || got.TrendData == nil {
		t.Fatalf("expected empty arrays, got %+v", got)
	}
	b, _ := json.Marshal(got.OpportunityScores)
	if string(b) != `{"total_score":0}` {
		t.Fatalf("unexpected scores %s", b)
	}
}

func TestGet_NotFoundAndCorrupt(t *testing.T) {
	db := openTestDB(t)
	id := insertTopic(t, db, topicFixture{name: "Corrupt", category: "social", ideas: `[{"text":`})
	svc := newTestTopicService(db)

	if _, err := svc.Get(background(), id+100); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
	if _, err := svc.Get(background(), id); !errors.Is(err, ErrCorruptTopic) {
		t.Fatalf("expected ErrCorruptTopic, got %v", err)
	}
}

func TestTrending_ThresholdAndLimit(t *testing.T) {
	db := openTestDB(t)
	insertTopic(t, db, topicFixture{name: "Slow", category: "a", growth: 30})
	insertTopic(t, db, topicFixture{name: "Fast", category: "a", growth: 90})
	insertTopic(t, db, topicFixture{name: "Medium", category: "b", growth: 45})
	insertTopic(t, db, topicFixture{name: "Quick", category: "c", growth: 60})
	svc := newTestTopicService(db)

	got, err := svc.Trending(background(), 2)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Fast" || got[1].Title != "Quick" {
		t.Fatalf("unexpected trending %+v", got)
	}
	got, _ = svc.Trending(background(), 10)
	if len(got) != 3 {
		t.Fatalf("growth equal to the threshold must not count, got %+v", got)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTopicService(db)

	empty, err := svc.Stats(background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if empty != (DashboardStats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}

	insertTopic(t, db, topicFixture{name: "A", category: "software", growth: 10})
	insertTopic(t, db, topicFixture{name: "B", category: "software", growth: 40})
	insertTopic(t, db, topicFixture{name: "C", category: "health", growth: 50.5})
	stats, err := svc.Stats(background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := DashboardStats{TotalTopics: 3, TrendingTopics: 2, TotalCategories: 2, AverageGrowthRate: 33.5}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestCategories_Sorted(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTopicService(db)
	got, err := svc.Categories(background())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %v (%v)", got, err)
	}
	for _, c := range []string{"software", "finance", "software", "health"} {
		insertTopic(t, db, topicFixture{name: "t-" + c, category: c})
	}
	got, err = svc.Categories(background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := []string{"finance", "health", "software"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
