package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "exact match", input: "science", want: CategoryScience},
		{name: "uppercase", input: "TECHNOLOGY", want: CategoryTechnology},
		{name: "surrounding whitespace", input: "  sports \n", want: CategorySports},
		{name: "unknown", input: "astrology", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveCategory_FallsBackToGeneral(t *testing.T) {
	assert.Equal(t, CategoryHealth, DeriveCategory("HEALTH"))
	assert.Equal(t, CategoryGeneral, DeriveCategory("not-a-category"))
	assert.Equal(t, CategoryGeneral, DeriveCategory(""))
}
