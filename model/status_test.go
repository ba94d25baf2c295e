package model

import (
	"encoding/json"
	"testing"
)

func TestStatusKeys(t *testing.T) {
	want := map[Status]string{
		StatusOK:             "ok",
		StatusDeviation:      "deviation",
		StatusMissingInvoice: "missing_invoice",
		StatusMissingSystem:  "missing_system",
		StatusPartial:        "partial",
		StatusDuplicateCode:  "duplicate_code",
	}
	for status, key := range want {
		if status.String() != key {
			t.Errorf("Status %d: expected key %s, got %s", status, key, status.String())
		}
	}
	if Status(99).String() != "unknown" {
		t.Errorf("Expected unknown for out-of-range status")
	}
}

func TestStatusJSONRoundTrip(t *testing.T) {
	tally := map[Status]int{
		StatusOK:        3,
		StatusDeviation: 1,
	}

	data, err := json.Marshal(tally)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back map[Status]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back[StatusOK] != 3 || back[StatusDeviation] != 1 {
		t.Errorf("Round trip changed values: %v", back)
	}
}

func TestStatusUnmarshalUnknown(t *testing.T) {
	var s Status
	if err := s.UnmarshalText([]byte("nonsense")); err == nil {
		t.Error("Expected error for unknown status key")
	}
}

func TestAllStatusesCoversKeys(t *testing.T) {
	all := AllStatuses()
	if len(all) != 6 {
		t.Fatalf("Expected 6 statuses, got %d", len(all))
	}
	labels := DefaultLabels()
	for _, status := range all {
		if labels[status] == "" {
			t.Errorf("Status %s has no default label", status)
		}
	}
}

func TestMatchMethodKeys(t *testing.T) {
	if MatchNone.String() != "none" || MatchByCode.String() != "by_code" || MatchByName.String() != "by_name" {
		t.Error("Unexpected match method keys")
	}

	var m MatchMethod
	if err := m.UnmarshalText([]byte("by_name")); err != nil || m != MatchByName {
		t.Errorf("Expected by_name to parse, got %v (%v)", m, err)
	}
}
