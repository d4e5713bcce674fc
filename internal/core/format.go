package core

import "strconv"

// Format renders the amount for the user: whole currency units with dot
// grouping, e.g. "$1.250.000". Negative amounts keep the sign before the $.
func (m Money) Format() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := (cents + 50) / 100
	s := strconv.FormatInt(units, 10)
	var grouped []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, c)
	}
	out := "$" + string(grouped)
	if neg {
		out = "-" + out
	}
	return out
}
