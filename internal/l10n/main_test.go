package l10n

import "testing"

func TestT(t *testing.T) {
	tests := []struct {
		description string
		input       string
		vars        []interface{}
		want        string
	}{
		{
			description: "untranslated string",
			input:       "spawned",
			want:        "spawned",
		},
		{
			description: "formatting",
			input:       "spawned %s with pid %d",
			vars:        []interface{}{"main", 42},
			want:        "spawned main with pid 42",
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if got := T(test.input, test.vars...); got != test.want {
				t.Errorf("T() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestTN(t *testing.T) {
	if got := TN("%d configuration", "%d configurations", 1, 1); got != "1 configuration" {
		t.Errorf("TN() = %q", got)
	}
	if got := TN("%d configuration", "%d configurations", 3, 3); got != "3 configurations" {
		t.Errorf("TN() = %q", got)
	}
}
