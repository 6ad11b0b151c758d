package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textProducer(s string) Producer[string] {
	return func() string { return s }
}

func TestNewRecord(t *testing.T) {
	now := time.Now()
	r, err := NewRecord("saved", true, false, textProducer("Saved!"), now, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Len(t, r.ID, 26)
	assert.Equal(t, "saved", r.Name)
	assert.True(t, r.Forced)
	assert.False(t, r.Repeated)
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, uint64(7), r.Seq)
	assert.Equal(t, "Saved!", r.Render())
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	now := time.Now()
	a, err := NewRecord("a", false, false, textProducer("a"), now, 1)
	require.NoError(t, err)
	b, err := NewRecord("a", false, false, textProducer("a"), now, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewRecord_TimesOutsideULIDRange(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"zero time", time.Time{}},
		{"before epoch", time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"epoch", time.Unix(0, 0)},
		{"far future", time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord("a", false, false, textProducer("a"), tt.now, 1)
			require.NoError(t, err)
			assert.Len(t, r.ID, 26)
			assert.Equal(t, tt.now, r.CreatedAt)
		})
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Record[string])
		wantErr error
	}{
		{
			name:    "valid record",
			modify:  func(r *Record[string]) {},
			wantErr: nil,
		},
		{
			name: "empty name",
			modify: func(r *Record[string]) {
				r.Name = ""
			},
			wantErr: ErrEmptyName,
		},
		{
			name: "nil content",
			modify: func(r *Record[string]) {
				r.Content = nil
			},
			wantErr: ErrNilContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record[string]{Name: "ok", Content: textProducer("ok")}
			tt.modify(r)
			err := r.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_Before(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	older := &Record[string]{CreatedAt: base, Seq: 5}
	newer := &Record[string]{CreatedAt: base.Add(time.Millisecond), Seq: 1}
	assert.True(t, older.Before(newer))
	assert.False(t, newer.Before(older))

	// Same instant: insertion order decides
	first := &Record[string]{CreatedAt: base, Seq: 1}
	second := &Record[string]{CreatedAt: base, Seq: 2}
	assert.True(t, first.Before(second))
	assert.False(t, second.Before(first))
}

func TestRecord_Age(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &Record[string]{CreatedAt: base}

	assert.Equal(t, 3*time.Second, r.Age(base.Add(3*time.Second)))
	assert.Equal(t, time.Duration(0), r.Age(base.Add(-time.Second)))
}

func TestRecord_RenderIsLazy(t *testing.T) {
	calls := 0
	value := "before"
	r, err := NewRecord("lazy", false, false, func() string {
		calls++
		return value
	}, time.Now(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	value = "after"
	assert.Equal(t, "after", r.Render())
	assert.Equal(t, 1, calls)
}
