package database

import (
	"testing"
)

func TestDialector(t *testing.T) {
	cases := map[string]string{
		"":           "mysql",
		"mysql":      "mysql",
		"MySQL":      "mysql",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"sqlite":     "sqlite",
	}
	for driver, want := range cases {
		d, err := Dialector(driver, "dsn")
		if err != nil {
			t.Fatalf("driver %q: expect no error, got %v", driver, err)
		}
		if d.Name() != want {
			t.Fatalf("driver %q: expect dialector %s, got %s", driver, want, d.Name())
		}
	}

	if _, err := Dialector("oracle", "dsn"); err == nil {
		t.Fatalf("expect error for unsupported driver")
	}
}
