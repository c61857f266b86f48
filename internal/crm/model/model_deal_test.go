package model

import "testing"

func TestStageRankOrdering(t *testing.T) {
	wantRanks := map[DealStage]int{
		StageQualification: 1,
		StageProposal:      2,
		StageNegotiation:   3,
		StageClosed:        4,
	}

	for stage, want := range wantRanks {
		if got := stage.Rank(); got != want {
			t.Errorf("Rank(%s) = %d, want %d", stage, got, want)
		}
	}

	if DealStage("unknown").Rank() != 0 {
		t.Error("expected unknown stage to rank 0")
	}
}

func TestIsBackwardTransition(t *testing.T) {
	tests := []struct {
		from, to DealStage
		want     bool
	}{
		{StageQualification, StageProposal, false},
		{StageProposal, StageQualification, true},
		{StageNegotiation, StageClosed, false},
		{StageClosed, StageQualification, true},
		{StageProposal, StageProposal, false},
	}

	for _, tt := range tests {
		if got := IsBackwardTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("IsBackwardTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDealStatusIsClosed(t *testing.T) {
	if DealStatusNew.IsClosed() || DealStatusInProgress.IsClosed() {
		t.Error("new/in_progress should not be closed")
	}
	if !DealStatusWon.IsClosed() || !DealStatusLost.IsClosed() {
		t.Error("won/lost should be closed")
	}
}
