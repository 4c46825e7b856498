package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_id", "player_name").
		From("players").
		Where(Eq("position", "QB"), Like("player_name", "%Mahomes%")).
		OrderBy("player_name").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, player_name FROM players WHERE position = ? AND player_name LIKE ? ORDER BY player_name LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "QB" || args[1] != "%Mahomes%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	query, args, err := Select("position", "COUNT(1) AS players").
		From("weekly_stats w").
		Where(Eq("w.season", 2024)).
		GroupBy("position").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT position, COUNT(1) AS players FROM weekly_stats w WHERE w.season = ? GROUP BY position"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 2024 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("player_id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("player_id", "player_name").
		Values("00-001", "A").
		Values("00-002", "B").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (player_id, player_name) VALUES (?, ?), (?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "00-001" || args[3] != "B" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRejectsRaggedRows(t *testing.T) {
	_, _, err := InsertInto("players").
		Columns("player_id", "player_name").
		Values("00-001").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for mismatched row arity")
	}
}

func TestInEmptyValuesNeverMatch(t *testing.T) {
	query, args, err := Select("player_id").
		From("players").
		Where(In("player_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT player_id FROM players WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
