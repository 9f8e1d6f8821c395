package discovery

import (
	"testing"
)

func TestSpeaker_String(t *testing.T) {
	tests := []struct {
		name     string
		speaker  *Speaker
		expected string
	}{
		{
			name:     "with model",
			speaker:  &Speaker{Name: "Kitchen", Model: "Zipp", IP: "192.168.1.20"},
			expected: "Kitchen (Zipp) at 192.168.1.20",
		},
		{
			name:     "without model",
			speaker:  &Speaker{Name: "Kitchen", IP: "192.168.1.20"},
			expected: "Kitchen at 192.168.1.20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.speaker.String(); got != tt.expected {
				t.Errorf("Speaker.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpeaker_Matches(t *testing.T) {
	speaker := &Speaker{
		Name:     "Kitchen Zipp",
		Hostname: "Libratone-Zipp-1A2B.local.",
		IP:       "192.168.1.20",
	}

	tests := []struct {
		ref  string
		want bool
	}{
		{"192.168.1.20", true},
		{"kitchen zipp", true},
		{"Libratone-Zipp-1A2B.local", true},
		{"libratone-zipp-1a2b.local.", true},
		{"192.168.1.21", false},
		{"Kitchen", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := speaker.Matches(tt.ref); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSpeaker_GetMetadata(t *testing.T) {
	speaker := &Speaker{Metadata: map[string]string{"model": "Zipp"}}

	if got := speaker.GetMetadata("model"); got != "Zipp" {
		t.Errorf("GetMetadata(model) = %q, want Zipp", got)
	}
	if got := speaker.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}

	empty := &Speaker{}
	if got := empty.GetMetadata("model"); got != "" {
		t.Errorf("GetMetadata on nil metadata = %q, want empty", got)
	}
}
