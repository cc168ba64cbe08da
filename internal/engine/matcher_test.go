package engine

import (
	"testing"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

func int64Ptr(v int64) *int64 { return &v }

func marketFor(key, name string, playerID *int64) models.PropMarketSnapshot {
	return models.PropMarketSnapshot{
		GameID:        "game-1",
		PropPlayerKey: key,
		PlayerID:      playerID,
		PlayerName:    name,
		MarketKey:     "pts",
		Lines: []models.PropLine{
			{LineType: types.LineTypeOverUnder, Line: 20.5, SnapshotTs: time.Now()},
		},
	}
}

func TestMatchPlayersByID(t *testing.T) {
	players := []models.PlayerBoxScoreStat{
		{PlayerID: int64Ptr(23), Name: "LeBron James", Team: "LAL"},
	}
	markets := []models.PropMarketSnapshot{
		marketFor("lebron-james", "Lebron James", int64Ptr(23)),
	}

	matched, unmatched := MatchPlayers(players, markets)
	if len(unmatched) != 0 {
		t.Fatalf("expected no unmatched markets, got %d", len(unmatched))
	}
	if len(matched) != 1 {
		t.Fatalf("expected 1 matched player, got %d", len(matched))
	}
	if matched[0].Method != types.MatchedByID {
		t.Errorf("expected matched_by_id, got %s", matched[0].Method)
	}
}

func TestMatchPlayersFallsBackToName(t *testing.T) {
	players := []models.PlayerBoxScoreStat{
		{PlayerID: int64Ptr(23), Name: "LeBron James", Team: "LAL"},
	}
	// Prop feed carries a different identifier space for the same person.
	markets := []models.PropMarketSnapshot{
		marketFor("lebron-james", "  lebron james ", int64Ptr(900023)),
	}

	matched, unmatched := MatchPlayers(players, markets)
	if len(unmatched) != 0 {
		t.Fatalf("expected no unmatched markets, got %d", len(unmatched))
	}
	if matched[0].Method != types.MatchedByName {
		t.Errorf("expected matched_by_name, got %s", matched[0].Method)
	}
}

func TestMatchPlayersUnmatched(t *testing.T) {
	players := []models.PlayerBoxScoreStat{
		{PlayerID: int64Ptr(23), Name: "LeBron James", Team: "LAL"},
	}
	markets := []models.PropMarketSnapshot{
		marketFor("anthony-davis", "Anthony Davis", nil),
	}

	matched, unmatched := MatchPlayers(players, markets)
	if len(matched) != 0 {
		t.Fatalf("expected no matched players, got %d", len(matched))
	}
	if len(unmatched) != 1 {
		t.Fatalf("expected 1 unmatched market, got %d", len(unmatched))
	}
	if unmatched[0].Market.PropPlayerKey != "anthony-davis" {
		t.Errorf("unexpected unmatched market %s", unmatched[0].Market.PropPlayerKey)
	}
}

func TestMatchPlayersMergesMarketsPerPlayer(t *testing.T) {
	players := []models.PlayerBoxScoreStat{
		{PlayerID: int64Ptr(23), Name: "LeBron James", Team: "LAL"},
	}
	reb := marketFor("lebron-james", "LeBron James", int64Ptr(23))
	reb.MarketKey = "reb"
	markets := []models.PropMarketSnapshot{
		marketFor("lebron-james", "LeBron James", nil),
		reb,
	}

	matched, _ := MatchPlayers(players, markets)
	if len(matched) != 1 {
		t.Fatalf("expected one record per player, got %d", len(matched))
	}
	if len(matched[0].Markets) != 2 {
		t.Errorf("expected both markets bound, got %d", len(matched[0].Markets))
	}
	// One ID binding upgrades the record even when another market bound by name.
	if matched[0].Method != types.MatchedByID {
		t.Errorf("expected matched_by_id after upgrade, got %s", matched[0].Method)
	}
}

func TestMatchPlayersDuplicateNameIsDeterministic(t *testing.T) {
	players := []models.PlayerBoxScoreStat{
		{PlayerID: int64Ptr(7), Name: "Jalen Williams", Team: "OKC"},
		{PlayerID: int64Ptr(8), Name: "Jalen Williams", Team: "OKC"},
	}
	markets := []models.PropMarketSnapshot{
		marketFor("jalen-williams", "Jalen Williams", nil),
	}

	for i := 0; i < 10; i++ {
		matched, _ := MatchPlayers(players, markets)
		if len(matched) != 1 {
			t.Fatalf("expected 1 matched player, got %d", len(matched))
		}
		if *matched[0].Player.PlayerID != 7 {
			t.Fatal("expected the first box-score row to win")
		}
		if matched[0].Method != types.MatchedByName {
			t.Fatalf("expected matched_by_name, got %s", matched[0].Method)
		}
	}
}
