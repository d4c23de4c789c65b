package main

import (
	"reflect"
	"testing"
)

func TestRewriteDeepLinkArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"flowdeck"},
			want: []string{"flowdeck"},
		},
		{
			name: "deep link first token",
			in:   []string{"flowdeck", "temporal://tui/namespaces/default/workflows"},
			want: []string{"flowdeck", "open", "temporal://tui/namespaces/default/workflows"},
		},
		{
			name: "deep link after value flag",
			in:   []string{"flowdeck", "--namespace", "payments", "temporal://tui/namespaces/payments/schedules"},
			want: []string{"flowdeck", "--namespace", "payments", "open", "temporal://tui/namespaces/payments/schedules"},
		},
		{
			name: "deep link after equals flag",
			in:   []string{"flowdeck", "--namespace=payments", "temporal://tui/namespaces/payments/schedules"},
			want: []string{"flowdeck", "--namespace=payments", "open", "temporal://tui/namespaces/payments/schedules"},
		},
		{
			name: "deep link after double dash",
			in:   []string{"flowdeck", "--db", "/tmp/fd.sqlite", "--", "temporal://tui/namespaces/default/workflows"},
			want: []string{"flowdeck", "--db", "/tmp/fd.sqlite", "--", "open", "temporal://tui/namespaces/default/workflows"},
		},
		{
			name: "explicit open not rewritten",
			in:   []string{"flowdeck", "open", "temporal://tui/namespaces/default/workflows"},
			want: []string{"flowdeck", "open", "temporal://tui/namespaces/default/workflows"},
		},
		{
			name: "ordinary subcommand not rewritten",
			in:   []string{"flowdeck", "recent"},
			want: []string{"flowdeck", "recent"},
		},
		{
			name: "foreign scheme not rewritten",
			in:   []string{"flowdeck", "https://example.com"},
			want: []string{"flowdeck", "https://example.com"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDeepLinkArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDeepLinkArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
