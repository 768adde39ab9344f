package netguard

import "testing"

func TestNewRejectsBadCIDR(t *testing.T) {
	if _, err := New([]string{"192.168.0.0/24", "not-a-cidr"}); err == nil {
		t.Error("New() error = nil, want error for bad CIDR")
	}
}

func TestAllowed(t *testing.T) {
	guard, err := New([]string{"192.168.0.0/24", "10.0.0.0/8"})
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	tests := []struct {
		ip      string
		want    bool
		wantErr bool
	}{
		{ip: "192.168.0.17", want: true},
		{ip: "192.168.1.17", want: false},
		{ip: "10.200.3.4", want: true},
		{ip: "8.8.8.8", want: false},
		{ip: "garbage", wantErr: true},
		{ip: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			got, err := guard.Allowed(tt.ip)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Allowed(%q) error = %v, wantErr %v", tt.ip, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}
