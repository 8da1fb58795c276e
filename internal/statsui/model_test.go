package statsui

import (
	"testing"

	"github.com/verte-zerg/gazecal/internal/model"
)

func TestParseTargetList(t *testing.T) {
	ids, err := parseTargetList("1, 5,17")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 5 || ids[2] != 17 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestParseTargetListRejectsOutOfRange(t *testing.T) {
	if _, err := parseTargetList("18"); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := parseTargetList("0"); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := parseTargetList("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseTargetListDeduplicates(t *testing.T) {
	ids, err := parseTargetList("3,3,3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestBuildTargetTableRowsWorstFirst(t *testing.T) {
	sessions := []model.SessionAggregate{{SessionID: 1}}
	aggs := []model.TargetAggregate{
		{TargetID: 1, TargetName: "Top-Left", Samples: 2, ErrorSum: 2},
		{TargetID: 2, TargetName: "Top-Center", Samples: 2, ErrorSum: 8},
	}
	rows := buildTargetTableRows(sessions, aggs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "P2" {
		t.Fatalf("worst target must come first, got %v", rows[0])
	}
	if rows[0][2] != "4.00%" {
		t.Fatalf("unexpected avg error cell: %v", rows[0])
	}
}

func TestBuildTargetTableRowsEmpty(t *testing.T) {
	if rows := buildTargetTableRows(nil, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}
