package repository

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestFilterBuilder(t *testing.T) {
	id := uuid.MustParse("6f1c8f2e-8a51-4a57-9f4e-3c2b9d7f1a10")

	tests := []struct {
		name      string
		build     func(b *filterBuilder)
		fixed     []string
		wantWhere string
		wantArgs  []any
		wantNext  int
	}{
		{
			name:      "no conditions",
			build:     func(b *filterBuilder) {},
			wantWhere: "",
			wantNext:  1,
		},
		{
			name:      "fixed only",
			fixed:     []string{"deleted_at IS NULL"},
			build:     func(b *filterBuilder) { b.add("status = $%d", "") },
			wantWhere: " WHERE deleted_at IS NULL",
			wantNext:  1,
		},
		{
			name:  "skips empty values",
			fixed: []string{"deleted_at IS NULL"},
			build: func(b *filterBuilder) {
				b.add("movie_id = $%d", uuid.Nil)
				b.add("theater_id = $%d", id)
				b.add("category = $%d", "drink")
				b.add("starts_at >= $%d", nil)
			},
			wantWhere: " WHERE deleted_at IS NULL AND theater_id = $1 AND category = $2",
			wantArgs:  []any{id, "drink"},
			wantNext:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFilterBuilder(tt.fixed...)
			tt.build(b)

			if got := b.String(); got != tt.wantWhere {
				t.Errorf("String() = %q, want %q", got, tt.wantWhere)
			}
			if !reflect.DeepEqual(b.args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", b.args, tt.wantArgs)
			}
			if got := b.next(); got != tt.wantNext {
				t.Errorf("next() = %d, want %d", got, tt.wantNext)
			}
		})
	}
}
