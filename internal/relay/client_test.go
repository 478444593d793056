package relay

import (
	"testing"
	"time"
)

func TestNextDelayDoublesAndCaps(t *testing.T) {
	d := nextDelay(time.Second, 30*time.Second)
	if d != 2*time.Second {
		t.Errorf("nextDelay(1s) = %v, want 2s", d)
	}

	d = nextDelay(20*time.Second, 30*time.Second)
	if d != 30*time.Second {
		t.Errorf("nextDelay(20s) = %v, want the 30s ceiling", d)
	}

	d = nextDelay(30*time.Second, 30*time.Second)
	if d != 30*time.Second {
		t.Errorf("nextDelay(30s) = %v, want to stay at the ceiling", d)
	}
}

func TestSkippedSources(t *testing.T) {
	for _, src := range []string{"pump_fun", "PUMP_AMM"} {
		if _, skip := skippedSources[src]; !skip {
			t.Errorf("source %q should be skipped", src)
		}
	}
	if _, skip := skippedSources["RAYDIUM"]; skip {
		t.Error("RAYDIUM must not be skipped")
	}
}
