package repository

import (
	"testing"

	"tradesim/types"
)

func TestBucketToInterval(t *testing.T) {
	tests := []struct {
		interval types.Interval
		want     string
	}{
		{types.OneMinute, "1 minute"},
		{types.Hour, "1 hour"},
		{types.FourHours, "4 hours"},
		{types.Day, "1 day"},
		{types.Week, "1 week"},
	}

	for _, tt := range tests {
		got, ok := bucketToInterval[tt.interval]
		if !ok {
			t.Errorf("interval %q has no bucket mapping", tt.interval)
			continue
		}
		if got != tt.want {
			t.Errorf("bucket for %q = %q, want %q", tt.interval, got, tt.want)
		}
	}
}

func TestBucketToInterval_CoversConvertInterval(t *testing.T) {
	// Every interval reachable from configuration must have a bucket.
	for raw, interval := range types.ConvertInterval {
		if _, ok := bucketToInterval[interval]; !ok {
			t.Errorf("configured interval %q (%q) has no bucket mapping", raw, interval)
		}
	}
}
