package extractor

import "testing"

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		input  string
		metric Metric
		ok     bool
	}{
		{"Ending Balance", MetricEnding, true},
		{"ENDING BALANCE", MetricEnding, true},
		{"Closing Balance", MetricEnding, true},
		{"Total Ending Balance", MetricEnding, true},
		{"Current Value", MetricEnding, true},
		{"Beginning Balance", MetricBeginning, true},
		{"Begin Balance", MetricBeginning, true},
		{"Opening NAV", MetricBeginning, true},
		{"Current Period Beginning Balance", MetricBeginning, true},
		{"Unrealized Gain/Loss", MetricUnrealized, true},
		{"Unrealised Gain/Loss", MetricUnrealized, true},
		{"Unrealized Gain/(Loss)", MetricUnrealized, true},
		{"Realized Gain/Loss", MetricRealized, true},
		{"Realized PnL", MetricRealized, true},
		{"Management Fees", MetricFees, true},
		{"Mgmt Fee", MetricFees, true},
		{"  Ending   Balance  ", MetricEnding, true},      // whitespace noise
		{"Ending Balance", MetricEnding, true},            // NBSP
		{"Projected Ending Balance Next Year", "", false}, // full match only
		{"Balance", "", false},
		{"Fund A", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			metric, ok := ClassifyLabel(tt.input)
			if ok != tt.ok {
				t.Fatalf("ClassifyLabel(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && metric != tt.metric {
				t.Errorf("ClassifyLabel(%q) = %q, want %q", tt.input, metric, tt.metric)
			}
		})
	}
}

func TestClassifyLabelUnrealizedBeforeRealized(t *testing.T) {
	// The realized patterns must not swallow unrealized captions.
	metric, ok := ClassifyLabel("Unrealized Gain/Loss")
	if !ok || metric != MetricUnrealized {
		t.Fatalf("got (%q, %v), want unrealized", metric, ok)
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ending   Balance ", "ending balance"},
		{"Ending Balance", "ending balance"},
		{"UPPER", "upper"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLabel(tt.input); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
