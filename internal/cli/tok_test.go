package cli

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "set k v", []string{"set", "k", "v"}},
		{"double-quoted value with spaces", `set k "hello world"`, []string{"set", "k", "hello world"}},
		{"single-quoted value", `set k 'hello world'`, []string{"set", "k", "hello world"}},
		{"escaped quote", `set k "say \"hi\""`, []string{"set", "k", `say "hi"`}},
		{"extra whitespace", "  list   *debug*  ", []string{"list", "*debug*"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tokenize(tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokenize(%q) = %#v, want %#v", tc.line, got, tc.want)
			}
		})
	}
}
