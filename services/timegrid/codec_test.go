package timegrid

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"meetsync/models"
)

const (
	busy      = models.AvailabilityBusy
	tentative = models.AvailabilityTentative
	available = models.AvailabilityAvailable
)

func TestCompress_Example(t *testing.T) {
	g := DefaultGrid()
	cells := []models.Cell{
		{Day: 0, Row: 5, AvailabilityType: tentative},
		{Day: 0, Row: 2, AvailabilityType: busy},
		{Day: 0, Row: 0, AvailabilityType: busy},
		{Day: 0, Row: 1, AvailabilityType: busy},
	}

	got, err := g.Compress(cells)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	want := []models.TimeSlot{
		{Day: 0, StartMinute: 0, EndMinute: 45, AvailabilityType: busy},
		{Day: 0, StartMinute: 75, EndMinute: 90, AvailabilityType: tentative},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compress = %+v, want %+v", got, want)
	}
}

func TestCompress_Empty(t *testing.T) {
	got, err := DefaultGrid().Compress(nil)
	if err != nil {
		t.Fatalf("Compress(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no slots, got %+v", got)
	}
}

func TestCompress_TypeChangeSplitsRun(t *testing.T) {
	got, err := DefaultGrid().Compress([]models.Cell{
		{Day: 2, Row: 10, AvailabilityType: busy},
		{Day: 2, Row: 11, AvailabilityType: tentative},
		{Day: 2, Row: 12, AvailabilityType: busy},
	})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 slots, got %+v", got)
	}
	if got[1].StartMinute != 165 || got[1].EndMinute != 180 || got[1].AvailabilityType != tentative {
		t.Errorf("unexpected middle slot %+v", got[1])
	}
}

func TestCompress_SortsAcrossDays(t *testing.T) {
	got, err := DefaultGrid().Compress([]models.Cell{
		{Day: 4, Row: 0, AvailabilityType: busy},
		{Day: 1, Row: 8, AvailabilityType: busy},
		{Day: 1, Row: 2, AvailabilityType: busy},
	})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	order := [][2]int{{1, 30}, {1, 120}, {4, 0}}
	for i, o := range order {
		if got[i].Day != o[0] || got[i].StartMinute != o[1] {
			t.Errorf("slot %d = %+v, want day %d start %d", i, got[i], o[0], o[1])
		}
	}
}

func TestCompress_DayStartOffset(t *testing.T) {
	g, err := New(9*60, 15)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := g.Compress([]models.Cell{{Day: 0, Row: 0, AvailabilityType: busy}})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if got[0].StartMinute != 540 || got[0].EndMinute != 555 {
		t.Errorf("expected 540-555, got %+v", got[0])
	}
}

func TestCompress_Rejections(t *testing.T) {
	g := DefaultGrid()
	tests := []struct {
		name  string
		cells []models.Cell
		want  error
	}{
		{"available cell", []models.Cell{{Day: 0, Row: 0, AvailabilityType: available}}, ErrUnknownAvailability},
		{"unknown type", []models.Cell{{Day: 0, Row: 0, AvailabilityType: "maybe"}}, ErrUnknownAvailability},
		{"day too large", []models.Cell{{Day: 5, Row: 0, AvailabilityType: busy}}, ErrCellOutOfRange},
		{"negative row", []models.Cell{{Day: 0, Row: -1, AvailabilityType: busy}}, ErrCellOutOfRange},
		{"row past day end", []models.Cell{{Day: 0, Row: 96, AvailabilityType: busy}}, ErrCellOutOfRange},
		{"conflicting duplicate", []models.Cell{
			{Day: 0, Row: 3, AvailabilityType: busy},
			{Day: 0, Row: 3, AvailabilityType: tentative},
		}, ErrConflictingCell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Compress(tt.cells); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCompress_IdenticalDuplicatesCollapse(t *testing.T) {
	got, err := DefaultGrid().Compress([]models.Cell{
		{Day: 0, Row: 3, AvailabilityType: busy},
		{Day: 0, Row: 3, AvailabilityType: busy},
		{Day: 0, Row: 4, AvailabilityType: busy},
	})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	want := []models.TimeSlot{{Day: 0, StartMinute: 45, EndMinute: 75, AvailabilityType: busy}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compress = %+v, want %+v", got, want)
	}
}

func TestDecompress_SkipsAvailable(t *testing.T) {
	cells := DefaultGrid().Decompress([]models.TimeSlot{
		{Day: 0, StartMinute: 0, EndMinute: 30, AvailabilityType: busy},
		{Day: 0, StartMinute: 30, EndMinute: 60, AvailabilityType: available},
	})
	want := []models.Cell{
		{Day: 0, Row: 0, AvailabilityType: busy},
		{Day: 0, Row: 1, AvailabilityType: busy},
	}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("Decompress = %+v, want %+v", cells, want)
	}
}

// randomCells paints a random, duplicate-free cell set sorted by (day,row).
func randomCells(r *rand.Rand, g Grid) []models.Cell {
	var cells []models.Cell
	for day := 0; day < g.Days; day++ {
		for row := 0; row < g.Rows(); row++ {
			switch r.Intn(4) {
			case 0:
				cells = append(cells, models.Cell{Day: day, Row: row, AvailabilityType: busy})
			case 1:
				cells = append(cells, models.Cell{Day: day, Row: row, AvailabilityType: tentative})
			}
		}
	}
	return cells
}

func shuffled(r *rand.Rand, cells []models.Cell) []models.Cell {
	out := append([]models.Cell(nil), cells...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestRoundTrip_CellsThroughSlots(t *testing.T) {
	g := DefaultGrid()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		cells := randomCells(r, g)
		slots, err := g.Compress(shuffled(r, cells))
		if err != nil {
			t.Fatalf("iteration %d: Compress: %v", i, err)
		}
		got := g.Decompress(slots)
		if len(cells) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, cells) {
			t.Fatalf("iteration %d: round trip mismatch (%d cells in, %d out)", i, len(cells), len(got))
		}
	}
}

func TestRoundTrip_SlotsThroughCells(t *testing.T) {
	g := DefaultGrid()
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		slots, err := g.Compress(randomCells(r, g))
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		assertMaximal(t, slots)

		again, err := g.Compress(g.Decompress(slots))
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		if !reflect.DeepEqual(again, slots) {
			t.Fatalf("iteration %d: compress(decompress(S)) != S", i)
		}

		twice, err := g.Compress(g.Decompress(again))
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		if !reflect.DeepEqual(twice, again) {
			t.Fatalf("iteration %d: compression is not idempotent", i)
		}
	}
}

func assertMaximal(t *testing.T, slots []models.TimeSlot) {
	t.Helper()
	if !sort.SliceIsSorted(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].StartMinute < slots[j].StartMinute
	}) {
		t.Fatal("slots not sorted by (day, start)")
	}
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if prev.Day != cur.Day {
			continue
		}
		if cur.StartMinute < prev.EndMinute {
			t.Fatalf("overlap between %+v and %+v", prev, cur)
		}
		if cur.StartMinute == prev.EndMinute && cur.AvailabilityType == prev.AvailabilityType {
			t.Fatalf("mergeable neighbours %+v and %+v", prev, cur)
		}
	}
}

func TestNormalize(t *testing.T) {
	g := DefaultGrid()

	got, err := g.Normalize([]models.TimeSlot{
		{Day: 1, StartMinute: 60, EndMinute: 90, AvailabilityType: busy},
		{Day: 0, StartMinute: 0, EndMinute: 15, AvailabilityType: tentative},
		{Day: 1, StartMinute: 30, EndMinute: 60, AvailabilityType: busy},
		{Day: 1, StartMinute: 90, EndMinute: 120, AvailabilityType: available},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []models.TimeSlot{
		{Day: 0, StartMinute: 0, EndMinute: 15, AvailabilityType: tentative},
		{Day: 1, StartMinute: 30, EndMinute: 90, AvailabilityType: busy},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalize_Rejections(t *testing.T) {
	g := DefaultGrid()
	tests := []struct {
		name  string
		slots []models.TimeSlot
		want  error
	}{
		{"overlap", []models.TimeSlot{
			{Day: 0, StartMinute: 0, EndMinute: 60, AvailabilityType: busy},
			{Day: 0, StartMinute: 45, EndMinute: 90, AvailabilityType: tentative},
		}, ErrOverlappingSlots},
		{"misaligned", []models.TimeSlot{{Day: 0, StartMinute: 5, EndMinute: 30, AvailabilityType: busy}}, ErrInvalidSlot},
		{"empty interval", []models.TimeSlot{{Day: 0, StartMinute: 30, EndMinute: 30, AvailabilityType: busy}}, ErrInvalidSlot},
		{"past midnight", []models.TimeSlot{{Day: 0, StartMinute: 1425, EndMinute: 1455, AvailabilityType: busy}}, ErrInvalidSlot},
		{"weekend", []models.TimeSlot{{Day: 6, StartMinute: 0, EndMinute: 15, AvailabilityType: busy}}, ErrInvalidSlot},
		{"bad type", []models.TimeSlot{{Day: 0, StartMinute: 0, EndMinute: 15, AvailabilityType: "free"}}, ErrUnknownAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Normalize(tt.slots); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGrid_RowMinuteInverse(t *testing.T) {
	g, err := New(9*60, 15)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for row := 0; row < g.Rows(); row++ {
		if got := g.RowFromMinute(g.MinuteFromRow(row)); got != row {
			t.Fatalf("row %d round-tripped to %d", row, got)
		}
	}
	if g.Rows() != 60 {
		t.Errorf("expected 60 rows from 09:00, got %d", g.Rows())
	}
}

func TestNew_RejectsBadGrid(t *testing.T) {
	if _, err := New(0, 7); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for 7-minute rows, got %v", err)
	}
	if _, err := New(1440, 15); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for empty day, got %v", err)
	}
}
