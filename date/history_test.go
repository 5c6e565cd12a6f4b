package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	jul24, jul25 := New(2024, 7, 1), New(2025, 7, 1)

	assert.Equal(t, 0, h.Len())
	h.Append(jul25, "b").Append(jul24, "a")
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []point[string]{{jul24, "a"}, {jul25, "b"}}, h.points)

	h.Append(jul25, "c")
	assert.Equal(t, 2, h.Len())
	on, v, ok := h.ValueAsOf(jul25)
	assert.True(t, ok)
	assert.Equal(t, jul25, on)
	assert.Equal(t, "c", v)
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 5), 1.5)
	h.Append(New(2024, 1, 2), 1.2)
	h.Append(New(2024, 1, 3), 1.3)

	tests := []struct {
		on      Date
		wantDay Date
		want    float64
		wantOk  bool
	}{
		{New(2024, 1, 1), Date{}, 0, false},
		{New(2024, 1, 2), New(2024, 1, 2), 1.2, true},
		{New(2024, 1, 4), New(2024, 1, 3), 1.3, true},
		{New(2024, 1, 5), New(2024, 1, 5), 1.5, true},
		{New(2025, 1, 1), New(2024, 1, 5), 1.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.on.String(), func(t *testing.T) {
			day, got, ok := h.ValueAsOf(tt.on)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantDay, day)
			assert.Equal(t, tt.want, got)
		})
	}
}
