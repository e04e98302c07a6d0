package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	r := New("Ilhéus", "Pituba")
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"Fale sobre Ilhéus", "Ilhéus", true},
		{"Pituba", "Pituba", true},
		{"Pituba e Ilhéus", "Ilhéus", true},
		{"texto sem cidade", "", false},
		{"ilhéus", "", false},
		{"Ilheus", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestNewSkipsEmptyNames(t *testing.T) {
	t.Parallel()

	r := New("", "Barra")
	assert.Equal(t, []string{"Barra"}, r.Names())
	_, ok := r.Resolve("qualquer coisa")
	assert.False(t, ok)
}
