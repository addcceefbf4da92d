package comp

import "testing"

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{12096.0, 12096.0},
		{17280.004, 17280.0},
		{17280.006, 17280.01},
		{0.125, 0.13},   // half rounds away from zero
		{-0.125, -0.13}, // symmetric for negative amounts
		{0, 0},
	}
	for _, c := range cases {
		if got := RoundCents(c.in); got != c.want {
			t.Fatalf("RoundCents(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
