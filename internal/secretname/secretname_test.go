package secretname

import "testing"

func TestConstruct(t *testing.T) {
	cases := []struct {
		name           string
		prefix, suffix string
		key            string
		want           string
	}{
		{"prefix and suffix", "svc", "v1", "DB_PASSWORD", "svc-DB_PASSWORD-v1"},
		{"prefix only", "svc", "", "DB_PASSWORD", "svc-DB_PASSWORD"},
		{"suffix only", "", "v1", "DB_PASSWORD", "DB_PASSWORD-v1"},
		{"neither", "", "", "DB_PASSWORD", "DB_PASSWORD"},
		{"suffix with leading dash", "svc", "-v1", "DB_PASSWORD", "svc-DB_PASSWORD-v1"},
		{"key needs sanitizing", "svc", "", "DB.PASSWORD", "svc-DB_PASSWORD"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Construct(c.prefix, c.key, c.suffix)
			if got != c.want {
				t.Errorf("Construct(%q, %q, %q) = %q, want %q", c.prefix, c.key, c.suffix, got, c.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"foo.bar/baz":  "foo_bar_baz",
		"foo  bar":     "foo__bar",
		"foo---bar":    "foo-bar",
		"-foo-":        "foo",
		"already-fine": "already-fine",
	}

	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
