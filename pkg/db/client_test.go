package db

import (
	"testing"

	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
)

func TestDialectorFor(t *testing.T) {
	cases := []struct {
		driver  string
		name    string
		wantErr bool
	}{
		{driver: "", name: "postgres"},
		{driver: "postgres", name: "postgres"},
		{driver: "Postgres", name: "postgres"},
		{driver: "sqlite", name: "sqlite"},
		{driver: "mysql", wantErr: true},
	}
	for _, tc := range cases {
		dialector, err := dialectorFor(config.DBConfig{DSN: "test.db", Driver: tc.driver})
		if tc.wantErr {
			if err == nil {
				t.Fatalf("driver %q: expected error", tc.driver)
			}
			continue
		}
		if err != nil {
			t.Fatalf("driver %q: %v", tc.driver, err)
		}
		if got := dialector.Name(); got != tc.name {
			t.Fatalf("driver %q: expected dialector %q, got %q", tc.driver, tc.name, got)
		}
	}
}
