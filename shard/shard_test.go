package shard

import (
	"reflect"
	"testing"
)

func TestPlan(t *testing.T) {
	cases := []string{"a", "b", "c", "d", "e", "f", "g"}

	tests := []struct {
		name    string
		count   int
		want    [][]string
		wantErr bool
	}{
		{
			name:  "five shards",
			count: 5,
			want: [][]string{
				{"a", "f"},
				{"b", "g"},
				{"c"},
				{"d"},
				{"e"},
			},
		},
		{
			name:  "single shard keeps everything",
			count: 1,
			want:  [][]string{{"a", "b", "c", "d", "e", "f", "g"}},
		},
		{
			name:  "more shards than cases",
			count: 9,
			want: [][]string{
				{"a"}, {"b"}, {"c"}, {"d"}, {"e"}, {"f"}, {"g"}, nil, nil,
			},
		},
		{name: "zero count", count: 0, wantErr: true},
		{name: "negative count", count: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.count, cases)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Plan(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%d) = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}

// A plan must cover every case exactly once, whatever the shard count.
func TestPlanCoverage(t *testing.T) {
	cases := make([]string, 23)
	for i := range cases {
		cases[i] = string(rune('a' + i))
	}

	for count := 1; count <= 8; count++ {
		shards, err := Plan(count, cases)
		if err != nil {
			t.Fatalf("Plan(%d) failed: %v", count, err)
		}
		if len(shards) != count {
			t.Fatalf("Plan(%d) returned %d shards", count, len(shards))
		}

		seen := make(map[string]int)
		for _, s := range shards {
			for _, c := range s {
				seen[c]++
			}
		}
		for _, c := range cases {
			if seen[c] != 1 {
				t.Errorf("count=%d: case %q assigned %d times, want exactly once", count, c, seen[c])
			}
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	cases := []string{"t1", "t2", "t3", "t4", "t5"}
	first, err := Plan(3, cases)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Plan(3, cases)
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("Plan not deterministic: %v vs %v", again, first)
		}
	}
}

func TestForShard(t *testing.T) {
	cases := []string{"a", "b", "c", "d", "e"}

	got, err := ForShard(1, 2, cases)
	if err != nil {
		t.Fatalf("ForShard failed: %v", err)
	}
	if want := []string{"b", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ForShard(1, 2) = %v, want %v", got, want)
	}

	// ForShard must agree with Plan.
	shards, err := Plan(2, cases)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !reflect.DeepEqual(got, shards[1]) {
		t.Errorf("ForShard(1, 2) = %v disagrees with Plan shard 1 = %v", got, shards[1])
	}

	if _, err := ForShard(2, 2, cases); err == nil {
		t.Error("ForShard with out-of-range index must fail")
	}
	if _, err := ForShard(0, 0, cases); err == nil {
		t.Error("ForShard with zero total must fail")
	}
}
