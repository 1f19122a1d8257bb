package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordScoreSubmitted(t *testing.T) {
	before := testutil.ToFloat64(globalManager.scoresSubmitted.WithLabelValues("reaction"))
	RecordScoreSubmitted("reaction")
	RecordScoreSubmitted("reaction")
	after := testutil.ToFloat64(globalManager.scoresSubmitted.WithLabelValues("reaction"))
	if after-before != 2 {
		t.Errorf("scores_submitted_total delta = %v, want 2", after-before)
	}
}

func TestRecordAchievementAwarded(t *testing.T) {
	RecordAchievementAwarded("NIGHT_OWL")
	if got := testutil.ToFloat64(globalManager.achievementsAwarded.WithLabelValues("NIGHT_OWL")); got < 1 {
		t.Errorf("achievements_awarded_total{NIGHT_OWL} = %v, want >= 1", got)
	}
}

func TestSetWebsocketConnections(t *testing.T) {
	SetWebsocketConnections(3)
	if got := testutil.ToFloat64(globalManager.wsConnections); got != 3 {
		t.Errorf("realtime_connections = %v, want 3", got)
	}
}
