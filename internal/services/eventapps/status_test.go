package eventapps

import "testing"

func TestIsStatusOK(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"OK_Confirmed", true},
		{"OK_Pending", true},
		{"OK_", true},
		{"Invited", false},
		{"Negotiating", false},
		{"Declined", false},
		{"Cancelled", false},
		{"ok_confirmed", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStatusOK(tt.status); got != tt.want {
			t.Errorf("IsStatusOK(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
