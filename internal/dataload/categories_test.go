package dataload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical passes through", "Путешествия", "Путешествия"},
		{"alias mapped", "Ювелирные изделия", "Ювелирные украшения"},
		{"alias mapped restaurants", "Рестораны", "Кафе и рестораны"},
		{"case variant matched", "такси", "Такси"},
		{"close misspelling matched", "Путешествие", "Путешествия"},
		{"distant category kept as is", "Криптовалюта", "Криптовалюта"},
		{"whitespace trimmed", "  АЗС  ", "АЗС"},
		{"empty kept empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeCategory(tc.raw))
		})
	}
}
