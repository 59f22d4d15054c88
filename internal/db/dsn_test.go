package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://u:p@localhost:5432/garage", "postgres://u:p@localhost:5432/garage"},
		{"  'postgres://u@h/garage'  ", "postgres://u@h/garage"},
		{"host=localhost user=u dbname=garage", "host=localhost user=u dbname=garage sslmode=disable"},
		{"host=localhost   user=u  dbname=garage sslmode=require", "host=localhost user=u dbname=garage sslmode=require"},
		{"file:test.db?cache=shared", "file:test.db?cache=shared"},
		{"garbage input", "garbage input"},
	}
	for _, tc := range cases {
		if got := NormalizeDSN(tc.in); got != tc.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsSQLite(t *testing.T) {
	for dsn, want := range map[string]bool{
		"file:x?mode=memory":              true,
		"garage.db":                       true,
		":memory:":                        true,
		"postgres://u@h/garage":           false,
		"host=localhost dbname=garage":    false,
		"postgresql://u@h/garage?sslmode": false,
	} {
		if got := IsSQLite(dsn); got != want {
			t.Errorf("IsSQLite(%q) = %v, want %v", dsn, got, want)
		}
	}
}
