package app

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgconfig"
)

func TestCloseOrderPutsConfigLast(t *testing.T) {
	noop := func(context.Context) error { return nil }
	a := &App{closerFn: map[string]func(context.Context) error{
		closerConfig:     noop,
		closerHTTPServer: noop,
		"Traffic":        noop,
		"Audit":          noop,
	}}

	want := []string{"Audit", "Traffic", closerConfig}
	if got := a.closeOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("closeOrder() = %v, want %v", got, want)
	}
}

func TestCORSOrigins(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{name: "unset", yaml: "server: {}\n", want: []string{"*"}},
		{name: "list", yaml: "server:\n  cors:\n    allowed_origins: http://a.test, http://b.test\n", want: []string{"http://a.test", "http://b.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := pkgconfig.NewViper(path)
			if err != nil {
				t.Fatalf("NewViper: %v", err)
			}

			if got := corsOrigins(cfg); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("corsOrigins() = %v, want %v", got, tt.want)
			}
		})
	}
}
