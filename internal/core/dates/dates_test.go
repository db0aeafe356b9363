package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1850", "1850"},
		{"jan 1850", "JAN 1850"},
		{"12 January 1850", "12 JAN 1850"},
		{"12. Jan. 1850", "12 JAN 1850"},
		{"1850-01-12", "12 JAN 1850"},
		{"abt 1850", "ABT 1850"},
		{"Before 3 MAR 1901", "BEF 3 MAR 1901"},
		{"BET 1840 AND 1850", "BET 1840 AND 1850"},
		{"from 1 may 1800 to 1810", "FROM 1 MAY 1800 TO 1810"},
		{"FROM 1800", "FROM 1800"},
		{"TO 1800", "TO 1800"},
		{"11 FEB 1750/51", "11 FEB 1750/51"},
		{"29 FEB 1904", "29 FEB 1904"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"...",
		"sometime in spring",
		"32 JAN 1850",
		"29 FEB 1900",
		"12 13 1850",
		"BET 1840",
		"ABT",
		"1850-13-01",
		"JAN",
		"12345",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDiffer(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "12 JAN 1850", "12 JAN 1850", false},
		{"both empty", "", "", false},
		{"case and spacing", "12 jan  1850", "12 JAN 1850", false},
		{"same value different spelling", "12 January 1850", "1850-01-12", false},
		{"different day", "12 JAN 1850", "13 JAN 1850", true},
		{"qualifier matters", "ABT 1850", "1850", true},
		{"unparseable degrades to differ", "spring 1850", "1850", true},
		{"identical unparseable text", "spring 1850", "spring 1850", false},
		{"one side empty", "", "1850", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Differ(tt.a, tt.b))
			assert.Equal(t, tt.want, Differ(tt.b, tt.a))
		})
	}
}
