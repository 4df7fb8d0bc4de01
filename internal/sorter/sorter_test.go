package sorter

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/google/go-cmp/cmp"
)

func TestBubbleSort(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{7}, []int{7}},
		{"reversed", []int{5, 4, 3, 2, 1}, []int{1, 2, 3, 4, 5}},
		{"duplicates", []int{3, 1, 3, -2, 1}, []int{-2, 1, 1, 3, 3}},
		{"sorted", []int{1, 2, 3}, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]int{}, tt.in...)
			if err := bubbleSort(context.Background(), got, NoPause); err != nil {
				t.Fatalf("bubbleSort: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("bubbleSort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		mid  int
		want []int
	}{
		{"interleaved", []int{1, 4, 6, 2, 3, 5}, 3, []int{1, 2, 3, 4, 5, 6}},
		{"left empty", []int{1, 2}, 0, []int{1, 2}},
		{"right empty", []int{1, 2}, 2, []int{1, 2}},
		{"uneven", []int{9, 0, 1, 2}, 1, []int{0, 1, 2, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]int{}, tt.in...)
			if err := merge(context.Background(), got, tt.mid, NoPause); err != nil {
				t.Fatalf("merge: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecute_StaysInRange(t *testing.T) {
	data := []int{8, 7, 6, 5, 4, 3, 2, 1}
	table, err := tasktable.New(data, 2, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := Execute(context.Background(), table, 0, 1, NoPause); err != nil {
		t.Fatalf("Execute(0,1): %v", err)
	}
	want := []int{8, 7, 6, 5, 1, 2, 3, 4}
	if diff := cmp.Diff(want, table.Data()); diff != "" {
		t.Errorf("data after leaf (0,1) mismatch (-want +got):\n%s", diff)
	}

	if err := Execute(context.Background(), table, 0, 0, NoPause); err != nil {
		t.Fatalf("Execute(0,0): %v", err)
	}
	if err := Execute(context.Background(), table, 1, 0, NoPause); err != nil {
		t.Fatalf("Execute(1,0): %v", err)
	}
	if !slices.IsSorted(table.Data()) {
		t.Errorf("data = %v, want sorted", table.Data())
	}
}

func TestExecute_PacerAborts(t *testing.T) {
	table, err := tasktable.New([]int{3, 2, 1}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	calls := 0
	pacer := PacerFunc(func(context.Context) error {
		calls++
		return stop
	})

	if err := Execute(context.Background(), table, 0, 0, pacer); !errors.Is(err, stop) {
		t.Errorf("Execute() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("pacer called %d times, want 1", calls)
	}
}

func TestExecute_UnknownTask(t *testing.T) {
	table, err := tasktable.New([]int{1}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := Execute(context.Background(), table, 3, 0, NoPause); !errors.Is(err, tasktable.ErrTaskNotFound) {
		t.Errorf("Execute() error = %v, want ErrTaskNotFound", err)
	}
}
