package internal

import (
	"math/big"
	"testing"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0.01", want: "10000000000000000"},
		{in: "1", want: "1000000000000000000"},
		{in: " 2.5 ", want: "2500000000000000000"},
		{in: "0", want: "0"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0.0000000000000000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEther(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEther(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("ParseEther(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		wei  *big.Int
		want string
	}{
		{nil, "0"},
		{big.NewInt(0), "0"},
		{big.NewInt(10_000_000_000_000_000), "0.01"},
		{big.NewInt(1_000_000_000_000_000_000), "1"},
		{big.NewInt(1), "0.000000000000000001"},
		{big.NewInt(1_500_000_000_000_000_000), "1.5"},
	}

	for _, tt := range tests {
		if got := FormatEther(tt.wei); got != tt.want {
			t.Errorf("FormatEther(%v) = %q, want %q", tt.wei, got, tt.want)
		}
	}
}

func TestDefaultMintFeeMatchesParse(t *testing.T) {
	wei, err := ParseEther("0.01")
	if err != nil {
		t.Fatal(err)
	}
	if wei.Cmp(DefaultMintFee) != 0 {
		t.Errorf("DefaultMintFee = %s, want %s", DefaultMintFee, wei)
	}
}
