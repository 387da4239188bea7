package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	tests := []struct {
		typ  string
		want int
	}{
		{"bool", 1},
		{"int", 2},
		{"int64", 2},
		{"time.Duration", 2},
		{"uint8", 3},
		{"byte", 3},
		{"float64", 4},
		{"complex128", 4},
		{"string", 5},
		{"rune", 6},
		{"time.Time", 7},
		{"[]byte", 8},
		{"json.RawMessage", 8},
		{"url.URL", 8},
		{"uuid.UUID", 9},
		{"[]int", 30},
		{"[4]byte", 30},
		{"[]Nested", 30},
		{"map[string]int", 40},
		{"Nested", MaxWeight},
		{"pkg.Other", MaxWeight},
		{"func()", MaxWeight},
		{"chan int", MaxWeight},
		{"Box[int]", MaxWeight},
		{"", MaxWeight},
		{"*int", 3},
		{"(string)", 5},
		{"*[]int", 31},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, Weight(typeExpr(t, tt.typ)))
		})
	}
}

func TestWeight_OptionalPenaltyAccumulates(t *testing.T) {
	for _, base := range []string{"bool", "string", "uuid.UUID", "[]int", "map[int]int", "Nested"} {
		for n := 0; n <= 3; n++ {
			wrapped := strings.Repeat("*", n) + base
			assert.Equal(t, Weight(typeExpr(t, base))+n*OptionalPenalty, Weight(typeExpr(t, wrapped)), wrapped)
		}
	}
}
