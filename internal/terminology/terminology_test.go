package terminology

import "testing"

func TestReplacer_Apply(t *testing.T) {
	r := NewReplacer(map[string]string{
		"Redstone Flux": "Энергия редстоуна",
		"Flux":          "Поток",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "longer term wins",
			in:   "stores Redstone Flux safely",
			want: "stores Энергия редстоуна safely",
		},
		{
			name: "case insensitive",
			in:   "REDSTONE FLUX capacitor",
			want: "Энергия редстоуна capacitor",
		},
		{
			name: "whole word only",
			in:   "Fluxed Electrum",
			want: "Fluxed Electrum",
		},
		{
			name: "shorter term on its own",
			in:   "raw Flux output",
			want: "raw Поток output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReplacer_NilSafe(t *testing.T) {
	var r *Replacer
	if got := r.Apply("unchanged"); got != "unchanged" {
		t.Errorf("expected nil replacer to be a no-op, got %q", got)
	}
	if r.Len() != 0 {
		t.Errorf("expected nil replacer length 0, got %d", r.Len())
	}
}

func TestReplacer_EmptyGlossary(t *testing.T) {
	r := NewReplacer(nil)
	if got := r.Apply("unchanged"); got != "unchanged" {
		t.Errorf("expected empty glossary to be a no-op, got %q", got)
	}
}
